package mapper

import (
	"encoding/json"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/model"

	"gorm.io/datatypes"
)

type AffectConfigMapper struct{}

func NewAffectConfigMapper() *AffectConfigMapper {
	return &AffectConfigMapper{}
}

func (m *AffectConfigMapper) ToEntity(c *model.AffectConfiguration) *entity.AffectConfiguration {
	if c == nil {
		return nil
	}

	var words []string
	// Malformed rows degrade to an empty list, the classifier falls back
	// to its built-in defaults.
	_ = json.Unmarshal(c.Words, &words)

	return &entity.AffectConfiguration{
		Id:        c.Id,
		Key:       c.Key,
		Words:     words,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *AffectConfigMapper) ToModel(c *entity.AffectConfiguration) (*model.AffectConfiguration, error) {
	if c == nil {
		return nil, nil
	}

	raw, err := json.Marshal(c.Words)
	if err != nil {
		return nil, err
	}

	return &model.AffectConfiguration{
		Id:        c.Id,
		Key:       c.Key,
		Words:     datatypes.JSON(raw),
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}
