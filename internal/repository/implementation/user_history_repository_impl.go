package implementation

import (
	"context"
	"errors"
	"time"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/mapper"
	"ai-companion-be/internal/model"
	"ai-companion-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserHistoryRepository(db *gorm.DB) contract.UserHistoryRepository {
	return &UserHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserHistoryRepositoryImpl) Upsert(ctx context.Context, userId uuid.UUID, summary string) (*entity.UserHistory, error) {
	m := &model.UserHistory{
		Id:        uuid.New(),
		UserId:    userId,
		Summary:   summary,
		UpdatedAt: time.Now(),
	}

	// ON CONFLICT on the user_id unique index keeps the row singular.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"summary", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller gets the surviving row (original id on update).
	return r.FindByUserId(ctx, userId)
}

func (r *UserHistoryRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserHistory, error) {
	var m model.UserHistory
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.HistoryToEntity(&m), nil
}
