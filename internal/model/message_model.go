package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role          string    `gorm:"type:varchar(20);not null"`
	Content       string    `gorm:"type:text;not null"`
	AffectTag     *string   `gorm:"type:varchar(20)"`
	// Seq tie-breaks messages created within the same timestamp; listing
	// always orders by (created_at, seq).
	Seq       int64     `gorm:"autoIncrement;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null;index;autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}
