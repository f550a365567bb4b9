package implementation

import (
	"context"
	"errors"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/mapper"
	"knowledge-rag-be/internal/model"
	"knowledge-rag-be/internal/repository/contract"
	"knowledge-rag-be/internal/repository/specification"

	"gorm.io/gorm"
)

type WorkspaceMemberRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WorkspaceMapper
}

func NewWorkspaceMemberRepository(db *gorm.DB) contract.WorkspaceMemberRepository {
	return &WorkspaceMemberRepositoryImpl{
		db:     db,
		mapper: mapper.NewWorkspaceMapper(),
	}
}

func (r *WorkspaceMemberRepositoryImpl) Create(ctx context.Context, member *entity.WorkspaceMember) error {
	m := r.mapper.MemberToModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.MemberToEntity(m)
	return nil
}

func (r *WorkspaceMemberRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WorkspaceMember, error) {
	var m model.WorkspaceMember
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MemberToEntity(&m), nil
}
