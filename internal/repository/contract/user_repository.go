package contract

import (
	"context"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type UserHistoryRepository interface {
	// Upsert inserts the summary row for a user or replaces its text.
	// At most one row per user exists at any time.
	Upsert(ctx context.Context, userId uuid.UUID, summary string) (*entity.UserHistory, error)
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserHistory, error)
}
