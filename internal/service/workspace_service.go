package service

import (
	"context"

	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IWorkspaceService answers membership questions. Workspaces themselves are
// managed by another system; only the member table is read here.
type IWorkspaceService interface {
	IsMember(ctx context.Context, workspaceId, userId uuid.UUID) (bool, error)
}

type workspaceService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewWorkspaceService(uowFactory unitofwork.RepositoryFactory) IWorkspaceService {
	return &workspaceService{uowFactory: uowFactory}
}

func (s *workspaceService) IsMember(ctx context.Context, workspaceId, userId uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	member, err := uow.WorkspaceMemberRepository().FindOne(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.ByUserID{UserID: userId},
		specification.ActiveMember{},
	)
	if err != nil {
		return false, err
	}
	return member != nil, nil
}
