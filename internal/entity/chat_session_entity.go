package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	StartedAt time.Time
	EndedAt   *time.Time
	UpdatedAt *time.Time
}
