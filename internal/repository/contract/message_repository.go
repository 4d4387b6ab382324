package contract

import (
	"context"
	"time"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository interface {
	// Append persists a new message; Seq is assigned by the database and
	// written back into the entity.
	Append(ctx context.Context, message *entity.Message) error
	// FindAll returns messages ordered by (created_at, seq) ascending on
	// top of whatever specs narrow the query.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	// FindRecent returns the most recent limit messages of a session in
	// ascending chronological order.
	FindRecent(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	LastActivity(ctx context.Context, sessionId uuid.UUID) (*time.Time, error)
}
