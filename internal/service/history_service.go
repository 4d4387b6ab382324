package service

import (
	"context"
	"fmt"
	"strings"

	"ai-companion-be/internal/dto"
	"ai-companion-be/internal/pkg/apperror"
	"ai-companion-be/internal/repository/unitofwork"
	"ai-companion-be/pkg/llm"

	"github.com/google/uuid"
)

const summarizePromptTemplate = `Resume en un parrafo corto, en segunda persona y en el idioma del texto, ` +
	`lo que la siguiente conversacion revela sobre el usuario: su estado de animo, sus temas recurrentes ` +
	`y cualquier dato personal que haya compartido. Devuelve solo el resumen.

%s`

type IHistoryService interface {
	Summarize(ctx context.Context, userId uuid.UUID, req *dto.UpsertHistoryRequest) (*dto.HistoryResponse, error)
	Get(ctx context.Context, userId uuid.UUID) (*dto.HistoryResponse, error)
}

type historyService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
}

func NewHistoryService(uowFactory unitofwork.RepositoryFactory, llmProvider llm.LLMProvider) IHistoryService {
	return &historyService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
	}
}

// Summarize condenses the submitted text into a profile summary and
// stores it as the user's single history row.
func (s *historyService) Summarize(ctx context.Context, userId uuid.UUID, req *dto.UpsertHistoryRequest) (*dto.HistoryResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.InvalidInput("text must not be empty")
	}

	summary, err := s.llmProvider.Generate(ctx, fmt.Sprintf(summarizePromptTemplate, text))
	if err != nil {
		return nil, apperror.UpstreamUnavailable("summary generation failed", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, apperror.UpstreamUnavailable("summary generation returned empty text", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	history, err := uow.UserHistoryRepository().Upsert(ctx, userId, summary)
	if err != nil {
		return nil, apperror.Internal("failed to store history summary", err)
	}

	return &dto.HistoryResponse{
		Id:        history.Id,
		UserId:    history.UserId,
		Summary:   history.Summary,
		UpdatedAt: history.UpdatedAt,
	}, nil
}

func (s *historyService) Get(ctx context.Context, userId uuid.UUID) (*dto.HistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	history, err := uow.UserHistoryRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, apperror.Internal("failed to load history", err)
	}
	if history == nil {
		return nil, apperror.NotFound("no history recorded for this user")
	}

	return &dto.HistoryResponse{
		Id:        history.Id,
		UserId:    history.UserId,
		Summary:   history.Summary,
		UpdatedAt: history.UpdatedAt,
	}, nil
}
