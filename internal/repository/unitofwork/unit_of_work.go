package unitofwork

import (
	"context"

	"ai-companion-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	UserHistoryRepository() contract.UserHistoryRepository
	ChatSessionRepository() contract.ChatSessionRepository
	MessageRepository() contract.MessageRepository
	AffectConfigRepository() contract.AffectConfigRepository
}
