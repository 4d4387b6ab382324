package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-companion-be/internal/constant"
	"ai-companion-be/internal/dto"
	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/pkg/apperror"
	"ai-companion-be/internal/repository/memory"
	"ai-companion-be/pkg/affect"
	"ai-companion-be/pkg/companion"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	uow       *fakeUnitOfWork
	llm       *scriptedLLM
	publisher *recordingPublisher
	service   IChatService
}

func newChatFixture(t *testing.T, llmReply string, llmErr error) *chatFixture {
	t.Helper()
	uow := newFakeUnitOfWork()
	provider := &scriptedLLM{reply: llmReply, err: llmErr}
	publisher := &recordingPublisher{}

	svc := NewChatService(
		&fakeFactory{uow: uow},
		companion.NewGenerator(provider, "guidance", time.Second),
		affect.NewClassifier(affect.DefaultConfig()),
		memory.NewSessionStateRepository(),
		publisher,
		nil,
		noopLogger{},
	)

	return &chatFixture{uow: uow, llm: provider, publisher: publisher, service: svc}
}

func TestSendMessageCreatesSessionAndPairsTurns(t *testing.T) {
	f := newChatFixture(t, "Entiendo, cuéntame más.", nil)
	userId := uuid.New()

	res, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		Content: "Hoy fue un día complicado en el trabajo",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.NotEqual(t, uuid.Nil, res.SessionId)
	assert.Equal(t, constant.MessageRoleUser, res.Sent.Role)
	assert.Equal(t, "Hoy fue un día complicado en el trabajo", res.Sent.Content)
	assert.Equal(t, constant.MessageRoleCompanion, res.Reply.Role)
	assert.Equal(t, "Entiendo, cuéntame más.", res.Reply.Content)
	assert.Nil(t, res.Crisis)

	stored, err := f.uow.messages.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, constant.MessageRoleUser, stored[0].Role)
	assert.Equal(t, constant.MessageRoleCompanion, stored[1].Role)
	assert.Equal(t, stored[0].ChatSessionId, stored[1].ChatSessionId)

	// title derived from the first user turn
	session, err := f.uow.sessions.FindOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hoy fue un día complicado en el trabajo", session.Title)

	// a completed turn is announced on the bus
	assert.Len(t, f.publisher.payloads, 1)
}

func TestSendMessageTruncatesLongTitle(t *testing.T) {
	f := newChatFixture(t, "ok", nil)
	userId := uuid.New()

	long := "Esta es una primera frase extremadamente larga que no cabe entera en un título de sesión"
	_, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{Content: long})
	require.NoError(t, err)

	session, err := f.uow.sessions.FindOne(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, long, session.Title)
	assert.LessOrEqual(t, len([]rune(session.Title)), constant.SessionTitleMaxLen+1)
}

func TestSendMessageFallbackOnGeneratorFailure(t *testing.T) {
	f := newChatFixture(t, "", errors.New("model offline"))
	userId := uuid.New()

	res, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		Content: "hola",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.FallbackReply, res.Reply.Content)
	assert.Equal(t, affect.TagNeutral, res.Reply.AffectTag)

	// both turns persisted even though generation failed
	stored, _ := f.uow.messages.FindAll(context.Background())
	require.Len(t, stored, 2)
	assert.Equal(t, constant.FallbackReply, stored[1].Content)
}

func TestSendMessageRejectsWhitespaceWithoutSideEffects(t *testing.T) {
	f := newChatFixture(t, "ok", nil)

	_, err := f.service.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Content: "   \n\t ",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	stored, _ := f.uow.messages.FindAll(context.Background())
	assert.Empty(t, stored)
	sessions, _ := f.uow.sessions.FindAll(context.Background())
	assert.Empty(t, sessions)
}

func TestSendMessageForeignSessionIsNotFound(t *testing.T) {
	f := newChatFixture(t, "ok", nil)
	owner := uuid.New()
	intruder := uuid.New()

	res, err := f.service.SendMessage(context.Background(), owner, &dto.SendMessageRequest{Content: "hola"})
	require.NoError(t, err)

	_, err = f.service.SendMessage(context.Background(), intruder, &dto.SendMessageRequest{
		SessionId: &res.SessionId,
		Content:   "quiero leer esto",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestSendMessageToEndedSessionConflicts(t *testing.T) {
	f := newChatFixture(t, "ok", nil)
	userId := uuid.New()

	res, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{Content: "hola"})
	require.NoError(t, err)

	require.NoError(t, f.service.EndSession(context.Background(), userId, &dto.EndSessionRequest{SessionId: res.SessionId}))

	_, err = f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		SessionId: &res.SessionId,
		Content:   "sigo aquí",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestSendMessageCrisisPayloadIsEphemeral(t *testing.T) {
	f := newChatFixture(t, "Lo que sientes importa, no estás solo.", nil)
	userId := uuid.New()

	res, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		Content: "A veces pienso en quitarme la vida",
	})
	require.NoError(t, err)

	require.NotNil(t, res.Crisis)
	assert.NotEmpty(t, res.Crisis.Message)
	assert.NotEmpty(t, res.Crisis.Resources)

	// the payload never reaches storage
	stored, _ := f.uow.messages.FindAll(context.Background())
	require.Len(t, stored, 2)
	for _, m := range stored {
		assert.NotContains(t, m.Content, res.Crisis.Resources[0].Contact)
	}
}

func TestSendMessageAffectTagOnlyOnCompanionTurns(t *testing.T) {
	f := newChatFixture(t, "Lamento mucho que estés pasando por esto.", nil)

	res, err := f.service.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{Content: "me siento fatal"})
	require.NoError(t, err)

	assert.Empty(t, res.Sent.AffectTag)
	assert.Equal(t, affect.TagSad, res.Reply.AffectTag)
}

func TestResumeOrCreateSession(t *testing.T) {
	f := newChatFixture(t, "hola, ¿cómo estás?", nil)
	userId := uuid.New()

	// no id creates a fresh session
	created, err := f.service.ResumeOrCreateSession(context.Background(), userId, &dto.ResumeSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, constant.DefaultSessionTitle, created.Title)
	assert.Empty(t, created.Messages)

	_, err = f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		SessionId: &created.SessionId,
		Content:   "hola",
	})
	require.NoError(t, err)

	// resuming returns the transcript in order
	resumed, err := f.service.ResumeOrCreateSession(context.Background(), userId, &dto.ResumeSessionRequest{
		SessionId: &created.SessionId,
	})
	require.NoError(t, err)
	assert.Equal(t, created.SessionId, resumed.SessionId)
	require.Len(t, resumed.Messages, 2)
	assert.Equal(t, constant.MessageRoleUser, resumed.Messages[0].Role)
	assert.Equal(t, constant.MessageRoleCompanion, resumed.Messages[1].Role)

	// a foreign id is indistinguishable from a missing one
	_, err = f.service.ResumeOrCreateSession(context.Background(), uuid.New(), &dto.ResumeSessionRequest{
		SessionId: &created.SessionId,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListSessions(t *testing.T) {
	f := newChatFixture(t, "ok", nil)
	userId := uuid.New()

	first, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{Content: "primera"})
	require.NoError(t, err)
	second, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{Content: "segunda"})
	require.NoError(t, err)

	// another user's sessions stay out of the listing
	_, err = f.service.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{Content: "ajena"})
	require.NoError(t, err)

	list, err := f.service.ListSessions(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, first.SessionId, list[0].Id)
	assert.Equal(t, second.SessionId, list[1].Id)
	for _, s := range list {
		assert.Equal(t, int64(2), s.MessageCount)
		assert.NotNil(t, s.LastActivityAt)
	}
}

func TestListMessagesOwnershipAndOrder(t *testing.T) {
	f := newChatFixture(t, "ok", nil)
	userId := uuid.New()

	res, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{Content: "hola"})
	require.NoError(t, err)
	_, err = f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		SessionId: &res.SessionId,
		Content:   "sigo aquí",
	})
	require.NoError(t, err)

	messages, err := f.service.ListMessages(context.Background(), userId, res.SessionId)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	for i, role := range []string{
		constant.MessageRoleUser, constant.MessageRoleCompanion,
		constant.MessageRoleUser, constant.MessageRoleCompanion,
	} {
		assert.Equal(t, role, messages[i].Role)
	}

	_, err = f.service.ListMessages(context.Background(), uuid.New(), res.SessionId)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestEndSessionIsIdempotent(t *testing.T) {
	f := newChatFixture(t, "ok", nil)
	userId := uuid.New()

	res, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{Content: "hola"})
	require.NoError(t, err)

	req := &dto.EndSessionRequest{SessionId: res.SessionId}
	require.NoError(t, f.service.EndSession(context.Background(), userId, req))
	require.NoError(t, f.service.EndSession(context.Background(), userId, req))

	session, err := f.uow.sessions.FindOne(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session.EndedAt)
}

func TestSendMessageHistoryWindowBound(t *testing.T) {
	f := newChatFixture(t, "ok", nil)
	userId := uuid.New()

	sessionId := uuid.New()
	session := &entity.ChatSession{
		Id:        sessionId,
		UserId:    userId,
		Title:     "larga",
		StartedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.uow.sessions.Create(context.Background(), session))

	base := time.Now().Add(-time.Minute)
	for i := 0; i < constant.HistoryWindow*2; i++ {
		msg := &entity.Message{
			Id:            uuid.New(),
			ChatSessionId: sessionId,
			Role:          constant.MessageRoleUser,
			Content:       "relleno",
			CreatedAt:     base.Add(time.Duration(i) * time.Millisecond),
		}
		require.NoError(t, f.uow.messages.Append(context.Background(), msg))
	}

	recent, err := f.uow.messages.FindRecent(context.Background(), sessionId, constant.HistoryWindow)
	require.NoError(t, err)
	assert.Len(t, recent, constant.HistoryWindow)

	_, err = f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		SessionId: &sessionId,
		Content:   "último",
	})
	require.NoError(t, err)
}

func TestConcurrentSendMessagesKeepTurnsPaired(t *testing.T) {
	f := newChatFixture(t, "aquí estoy", nil)
	f.llm.delay = 5 * time.Millisecond
	userId := uuid.New()

	created, err := f.service.ResumeOrCreateSession(context.Background(), userId, &dto.ResumeSessionRequest{})
	require.NoError(t, err)
	sessionId := created.SessionId

	const posts = 6
	var wg sync.WaitGroup
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := f.service.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
				SessionId: &sessionId,
				Content:   fmt.Sprintf("mensaje %d", n),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// every user turn is answered before the next one starts
	stored, err := f.uow.messages.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, posts*2)
	for i, msg := range stored {
		if i%2 == 0 {
			assert.Equal(t, constant.MessageRoleUser, msg.Role, "index %d", i)
		} else {
			assert.Equal(t, constant.MessageRoleCompanion, msg.Role, "index %d", i)
		}
	}
}

func TestSendMessageCompletesTurnAfterDisconnect(t *testing.T) {
	f := newChatFixture(t, "sigo aquí contigo", nil)
	f.llm.delay = 50 * time.Millisecond
	userId := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())

	type sendResult struct {
		res *dto.SendMessageResponse
		err error
	}
	done := make(chan sendResult, 1)
	go func() {
		res, err := f.service.SendMessage(ctx, userId, &dto.SendMessageRequest{
			Content: "hola",
		})
		done <- sendResult{res: res, err: err}
	}()

	// drop the request while the reply is still generating
	time.Sleep(10 * time.Millisecond)
	cancel()

	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, "sigo aquí contigo", out.res.Reply.Content)

	stored, err := f.uow.messages.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, constant.MessageRoleUser, stored[0].Role)
	assert.Equal(t, constant.MessageRoleCompanion, stored[1].Role)
	assert.Equal(t, "sigo aquí contigo", stored[1].Content)
}
