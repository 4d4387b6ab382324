package contract

import (
	"context"

	"ai-companion-be/internal/entity"
)

type AffectConfigRepository interface {
	FindAllActive(ctx context.Context) ([]*entity.AffectConfiguration, error)
	Save(ctx context.Context, config *entity.AffectConfiguration) error
}
