package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserHistory holds the single free-text summary row per user.
// Upserted, never multiplied.
type UserHistory struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Summary   string
	UpdatedAt time.Time
	CreatedAt time.Time
}
