package implementation

import (
	"context"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/mapper"
	"ai-companion-be/internal/model"
	"ai-companion-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AffectConfigRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AffectConfigMapper
}

func NewAffectConfigRepository(db *gorm.DB) contract.AffectConfigRepository {
	return &AffectConfigRepositoryImpl{
		db:     db,
		mapper: mapper.NewAffectConfigMapper(),
	}
}

func (r *AffectConfigRepositoryImpl) FindAllActive(ctx context.Context) ([]*entity.AffectConfiguration, error) {
	var models []*model.AffectConfiguration
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AffectConfiguration, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *AffectConfigRepositoryImpl) Save(ctx context.Context, config *entity.AffectConfiguration) error {
	m, err := r.mapper.ToModel(config)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"words", "is_active", "updated_at"}),
	}).Create(m).Error
}
