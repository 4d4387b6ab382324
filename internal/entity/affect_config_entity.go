package entity

import (
	"time"

	"github.com/google/uuid"
)

// AffectConfiguration stores one named keyword list for the affect/crisis
// classifier, so the heuristics can be tuned without touching code.
type AffectConfiguration struct {
	Id        uuid.UUID
	Key       string
	Words     []string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
