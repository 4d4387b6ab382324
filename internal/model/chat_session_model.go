package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID  `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title     string     `gorm:"type:text;not null"`
	StartedAt time.Time  `gorm:"not null;autoCreateTime"`
	EndedAt   *time.Time // closing a session sets this, rows are never deleted
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
