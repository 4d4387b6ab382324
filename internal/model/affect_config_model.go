package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AffectConfiguration stores classifier keyword lists as JSON so they can
// be tuned without a deploy.
type AffectConfiguration struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key       string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	Words     datatypes.JSON `gorm:"not null"`
	IsActive  bool           `gorm:"default:true;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (AffectConfiguration) TableName() string {
	return "affect_configurations"
}
