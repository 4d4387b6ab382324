package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ai-companion-be/internal/constant"
	"ai-companion-be/internal/dto"
	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/pkg/apperror"
	"ai-companion-be/internal/pkg/logger"
	"ai-companion-be/internal/repository/memory"
	"ai-companion-be/internal/repository/specification"
	"ai-companion-be/internal/repository/unitofwork"
	"ai-companion-be/pkg/affect"
	"ai-companion-be/pkg/companion"
	"ai-companion-be/pkg/events"
	pktNats "ai-companion-be/pkg/nats"

	"github.com/google/uuid"
)

type IChatService interface {
	ResumeOrCreateSession(ctx context.Context, userId uuid.UUID, req *dto.ResumeSessionRequest) (*dto.SessionResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error)
	ListMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.MessageDTO, error)
	EndSession(ctx context.Context, userId uuid.UUID, req *dto.EndSessionRequest) error
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	generator        *companion.Generator
	classifier       *affect.Classifier
	sessionStates    *memory.SessionStateRepository
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	generator *companion.Generator,
	classifier *affect.Classifier,
	sessionStates *memory.SessionStateRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		generator:        generator,
		classifier:       classifier,
		sessionStates:    sessionStates,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *chatService) ResumeOrCreateSession(ctx context.Context, userId uuid.UUID, req *dto.ResumeSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.SessionId != nil {
		session, err := s.findOwnedSession(ctx, uow, userId, *req.SessionId)
		if err != nil {
			return nil, err
		}

		messages, err := uow.MessageRepository().FindAll(ctx, specification.ByChatSessionID{ChatSessionID: session.Id})
		if err != nil {
			return nil, apperror.Internal("failed to load session messages", err)
		}

		return &dto.SessionResponse{
			SessionId: session.Id,
			Title:     session.Title,
			StartedAt: session.StartedAt,
			Messages:  toMessageDTOs(messages),
		}, nil
	}

	session, err := s.createSession(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	return &dto.SessionResponse{
		SessionId: session.Id,
		Title:     session.Title,
		StartedAt: session.StartedAt,
		Messages:  []*dto.MessageDTO{},
	}, nil
}

func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.InvalidInput("message content must not be empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var session *entity.ChatSession
	var err error
	if req.SessionId != nil {
		session, err = s.findOwnedSession(ctx, uow, userId, *req.SessionId)
		if err != nil {
			return nil, err
		}
		if session.EndedAt != nil {
			return nil, apperror.Conflict("session already ended")
		}
	} else {
		session, err = s.createSession(ctx, uow, userId)
		if err != nil {
			return nil, err
		}
	}

	// One turn at a time per session. Concurrent posts queue here so the
	// user/companion pairing in the transcript never interleaves.
	state := s.sessionStates.Acquire(session.Id.String())
	state.Lock()
	defer state.Unlock()

	userMsg := &entity.Message{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.MessageRoleUser,
		Content:       content,
		CreatedAt:     time.Now(),
	}
	if err := uow.MessageRepository().Append(ctx, userMsg); err != nil {
		return nil, apperror.Internal("failed to persist user message", err)
	}

	if session.Title == constant.DefaultSessionTitle {
		session.Title = deriveSessionTitle(content)
		now := time.Now()
		session.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			s.logger.Warn("ChatService", "failed to update session title", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}

	crisis := s.classifier.DetectCrisis(content)

	history, err := uow.MessageRepository().FindRecent(ctx, session.Id, constant.HistoryWindow)
	if err != nil {
		// The user turn is already persisted; fall back to just that turn.
		s.logger.Warn("ChatService", "failed to load history window", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		history = []*entity.Message{userMsg}
	}

	// The user turn is committed, so the companion turn must complete even
	// if the caller disconnects mid-generation.
	detached := context.WithoutCancel(ctx)

	replyText, affectTag := s.generateReply(detached, session.Id, history)

	companionMsg := &entity.Message{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.MessageRoleCompanion,
		Content:       replyText,
		AffectTag:     &affectTag,
		CreatedAt:     time.Now(),
	}
	if err := uow.MessageRepository().Append(detached, companionMsg); err != nil {
		return nil, apperror.Internal("failed to persist companion message", err)
	}

	if crisis {
		s.publishCrisisEvent(detached, userId, session.Id)
	}
	s.publishTurnRecorded(detached, userId, session.Id)

	resp := &dto.SendMessageResponse{
		SessionId: session.Id,
		Sent:      toMessageDTO(userMsg),
		Reply:     toMessageDTO(companionMsg),
	}
	if crisis {
		resp.Crisis = toCrisisDTO(s.classifier.CrisisPayload())
	}
	return resp, nil
}

func (s *chatService) ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "started_at"},
	)
	if err != nil {
		return nil, apperror.Internal("failed to list sessions", err)
	}

	result := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, session := range sessions {
		count, err := uow.MessageRepository().Count(ctx, specification.ByChatSessionID{ChatSessionID: session.Id})
		if err != nil {
			return nil, apperror.Internal("failed to count session messages", err)
		}
		lastActivity, err := uow.MessageRepository().LastActivity(ctx, session.Id)
		if err != nil {
			return nil, apperror.Internal("failed to resolve session activity", err)
		}
		result = append(result, &dto.SessionSummaryResponse{
			Id:             session.Id,
			Title:          session.Title,
			StartedAt:      session.StartedAt,
			EndedAt:        session.EndedAt,
			MessageCount:   count,
			LastActivityAt: lastActivity,
		})
	}
	return result, nil
}

func (s *chatService) ListMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.MessageDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx, specification.ByChatSessionID{ChatSessionID: session.Id})
	if err != nil {
		return nil, apperror.Internal("failed to load messages", err)
	}
	return toMessageDTOs(messages), nil
}

func (s *chatService) EndSession(ctx context.Context, userId uuid.UUID, req *dto.EndSessionRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, req.SessionId)
	if err != nil {
		return err
	}
	if session.EndedAt != nil {
		// Ending twice is a no-op.
		return nil
	}

	if err := uow.ChatSessionRepository().End(ctx, session.Id, time.Now()); err != nil {
		return apperror.Internal("failed to end session", err)
	}
	s.sessionStates.Delete(session.Id.String())
	return nil
}

// findOwnedSession resolves a session by id and owner in one query, so a
// foreign session is indistinguishable from a missing one.
func (s *chatService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("failed to find session", err)
	}
	if session == nil {
		return nil, apperror.NotFound("session not found")
	}
	return session, nil
}

func (s *chatService) createSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.ChatSession, error) {
	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.DefaultSessionTitle,
		StartedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, apperror.Internal("failed to create session", err)
	}
	return session, nil
}

// generateReply runs the companion generator over the history window and
// classifies the result. Any generator failure degrades into the fixed
// fallback reply with a neutral tag; the turn never fails on the model.
func (s *chatService) generateReply(ctx context.Context, sessionId uuid.UUID, history []*entity.Message) (string, string) {
	turns := make([]companion.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, companion.Turn{Role: m.Role, Content: m.Content})
	}

	replyText, err := s.generator.Reply(ctx, turns)
	if err != nil {
		s.logger.Error("ChatService", "reply generation failed, using fallback", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return constant.FallbackReply, affect.TagNeutral
	}
	return replyText, s.classifier.Classify(replyText, "")
}

func (s *chatService) publishCrisisEvent(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) {
	if s.eventPublisher == nil {
		return
	}
	event := events.BaseEvent{
		Type: events.TypeCrisisFlagged,
		Data: map[string]interface{}{
			"user_id":    userId,
			"session_id": sessionId,
		},
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("ChatService", "failed to publish crisis event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (s *chatService) publishTurnRecorded(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) {
	if s.publisherService == nil {
		return
	}
	payload := dto.TurnRecordedMessage{
		UserId:    userId,
		SessionId: sessionId,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("ChatService", "failed to marshal turn message", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
		s.logger.Error("ChatService", "failed to publish turn message", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

// deriveSessionTitle builds a session title from the first user turn,
// collapsed to a single line and truncated on a rune boundary.
func deriveSessionTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	runes := []rune(title)
	if len(runes) > constant.SessionTitleMaxLen {
		title = strings.TrimSpace(string(runes[:constant.SessionTitleMaxLen])) + "…"
	}
	return title
}

func toMessageDTO(m *entity.Message) *dto.MessageDTO {
	d := &dto.MessageDTO{
		Id:        m.Id,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.AffectTag != nil {
		d.AffectTag = *m.AffectTag
	}
	return d
}

func toMessageDTOs(messages []*entity.Message) []*dto.MessageDTO {
	result := make([]*dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		result = append(result, toMessageDTO(m))
	}
	return result
}

func toCrisisDTO(p affect.Payload) *dto.CrisisPayloadDTO {
	resources := make([]dto.CrisisResourceDTO, 0, len(p.Resources))
	for _, r := range p.Resources {
		resources = append(resources, dto.CrisisResourceDTO{
			Name:    r.Name,
			Contact: r.Contact,
			Note:    r.Note,
		})
	}
	return &dto.CrisisPayloadDTO{
		Message:    p.Message,
		Resources:  resources,
		Disclaimer: p.Disclaimer,
	}
}
