package serverutils

import (
	"context"

	"knowledge-rag-be/internal/constant"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const WorkspaceHeader = "x-workspace-id"

type MembershipChecker interface {
	IsMember(ctx context.Context, workspaceId, userId uuid.UUID) (bool, error)
}

// WorkspaceMiddleware resolves the workspace from the x-workspace-id header or
// the workspaceId query parameter and requires an active membership. It must
// run after the JWT middleware.
func WorkspaceMiddleware(checker MembershipChecker) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := UserID(ctx)
		if err != nil {
			return err
		}

		raw := ctx.Get(WorkspaceHeader)
		if raw == "" {
			raw = ctx.Query("workspaceId")
		}
		if raw == "" {
			return constant.ErrWorkspaceRequired
		}
		workspaceId, err := uuid.Parse(raw)
		if err != nil {
			return constant.ErrWorkspaceRequired
		}

		ok, err := checker.IsMember(ctx.UserContext(), workspaceId, userId)
		if err != nil {
			return err
		}
		if !ok {
			return constant.ErrWorkspaceForbidden
		}

		ctx.Locals(LocalWorkspaceID, workspaceId)
		return ctx.Next()
	}
}

func WorkspaceID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, ok := ctx.Locals(LocalWorkspaceID).(uuid.UUID)
	if !ok {
		return uuid.Nil, constant.ErrWorkspaceRequired
	}
	return id, nil
}
