package contract

import (
	"context"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/repository/specification"
)

type WorkspaceMemberRepository interface {
	Create(ctx context.Context, member *entity.WorkspaceMember) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WorkspaceMember, error)
}
