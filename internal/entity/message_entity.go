package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is immutable once created. Seq is assigned by the database and
// tie-breaks messages sharing a creation timestamp.
type Message struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	AffectTag     *string
	Seq           int64
	CreatedAt     time.Time
}
