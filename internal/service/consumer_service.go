package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-companion-be/internal/constant"
	"ai-companion-be/internal/dto"
	"ai-companion-be/internal/pkg/logger"
	"ai-companion-be/pkg/llm"

	"ai-companion-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const rollingSummaryPrompt = `Eres el modulo de memoria de un acompanante emocional. ` +
	`A partir del resumen previo del usuario y de sus turnos recientes, escribe un unico parrafo ` +
	`actualizado con su estado de animo, sus temas recurrentes y los datos personales que haya ` +
	`compartido. Devuelve solo el parrafo.

Resumen previo:
%s

Turnos recientes:
%s`

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService keeps each user's rolling history summary current. It
// drains the in-process turn topic and rewrites the summary after every
// completed turn.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TurnRecordedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Summarizer", "failed to unmarshal turn message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	recent, err := uow.MessageRepository().FindRecent(ctx, payload.SessionId, constant.HistoryWindow)
	if err != nil {
		cs.logger.Error("Summarizer", "failed to load session turns", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if len(recent) == 0 {
		msg.Ack()
		return
	}

	previous := "(sin resumen previo)"
	if history, err := uow.UserHistoryRepository().FindByUserId(ctx, payload.UserId); err == nil && history != nil {
		previous = history.Summary
	}

	var transcript strings.Builder
	for _, m := range recent {
		transcript.WriteString(fmt.Sprintf("%s: %s\n", m.Role, m.Content))
	}

	summary, err := cs.llmProvider.Generate(ctx, fmt.Sprintf(rollingSummaryPrompt, previous, transcript.String()))
	if err != nil {
		// The next turn will trigger another pass, so the model being down
		// is not worth a retry loop here.
		cs.logger.Warn("Summarizer", "summary generation failed", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
		msg.Ack()
		return
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		msg.Ack()
		return
	}

	if _, err := uow.UserHistoryRepository().Upsert(ctx, payload.UserId, summary); err != nil {
		cs.logger.Error("Summarizer", "failed to store summary", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
