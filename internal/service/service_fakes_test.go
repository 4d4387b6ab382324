package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/repository/contract"
	"ai-companion-be/internal/repository/specification"
	"ai-companion-be/internal/repository/unitofwork"
	"ai-companion-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. Specifications are concrete
// structs, so the fakes interpret them with a type switch instead of SQL.

type fakeUnitOfWork struct {
	users     *fakeUserRepo
	histories *fakeHistoryRepo
	sessions  *fakeSessionRepo
	messages  *fakeMessageRepo
	affect    *fakeAffectRepo
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:     &fakeUserRepo{},
		histories: &fakeHistoryRepo{rows: map[uuid.UUID]*entity.UserHistory{}},
		sessions:  &fakeSessionRepo{},
		messages:  &fakeMessageRepo{},
		affect:    &fakeAffectRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository               { return u.users }
func (u *fakeUnitOfWork) UserHistoryRepository() contract.UserHistoryRepository { return u.histories }
func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository { return u.sessions }
func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository         { return u.messages }
func (u *fakeUnitOfWork) AffectConfigRepository() contract.AffectConfigRepository {
	return u.affect
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// --- users ---

type fakeUserRepo struct {
	mu        sync.Mutex
	users     []*entity.User
	createErr error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if userMatches(u, specs) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if userMatches(u, specs) {
			n++
		}
	}
	return n, nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByEmail:
			if u.Email != spec.Email {
				return false
			}
		case specification.ByID:
			if u.Id != spec.ID {
				return false
			}
		}
	}
	return true
}

// --- user history ---

type fakeHistoryRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.UserHistory
}

func (r *fakeHistoryRepo) Upsert(ctx context.Context, userId uuid.UUID, summary string) (*entity.UserHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userId]
	if !ok {
		row = &entity.UserHistory{
			Id:        uuid.New(),
			UserId:    userId,
			CreatedAt: time.Now(),
		}
		r.rows[userId] = row
	}
	row.Summary = summary
	row.UpdatedAt = time.Now()
	copied := *row
	return &copied, nil
}

func (r *fakeHistoryRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userId]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

// --- chat sessions ---

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []*entity.ChatSession
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.sessions {
		if s.Id == session.Id {
			r.sessions[i] = session
			return nil
		}
	}
	return nil
}

func (r *fakeSessionRepo) End(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Id == id {
			s.EndedAt = &endedAt
		}
	}
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if sessionMatches(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.ChatSession
	for _, s := range r.sessions {
		if sessionMatches(s, specs) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})
	return result, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func sessionMatches(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, raw := range specs {
		switch spec := raw.(type) {
		case specification.ByID:
			if s.Id != spec.ID {
				return false
			}
		case specification.UserOwnedBy:
			if s.UserId != spec.UserID {
				return false
			}
		}
	}
	return true
}

// --- messages ---

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message
	nextSeq  int64
}

func (r *fakeMessageRepo) Append(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	message.Seq = r.nextSeq
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Message
	for _, m := range r.messages {
		if messageMatches(m, specs) {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Seq < result[j].Seq
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeMessageRepo) FindRecent(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.Message, error) {
	all, _ := r.FindAll(ctx, specification.ByChatSessionID{ChatSessionID: sessionId})
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeMessageRepo) LastActivity(ctx context.Context, sessionId uuid.UUID) (*time.Time, error) {
	all, _ := r.FindAll(ctx, specification.ByChatSessionID{ChatSessionID: sessionId})
	if len(all) == 0 {
		return nil, nil
	}
	t := all[len(all)-1].CreatedAt
	return &t, nil
}

func messageMatches(m *entity.Message, specs []specification.Specification) bool {
	for _, raw := range specs {
		switch spec := raw.(type) {
		case specification.ByChatSessionID:
			if m.ChatSessionId != spec.ChatSessionID {
				return false
			}
		case specification.ByID:
			if m.Id != spec.ID {
				return false
			}
		}
	}
	return true
}

// --- affect config ---

type fakeAffectRepo struct{}

func (r *fakeAffectRepo) FindAllActive(ctx context.Context) ([]*entity.AffectConfiguration, error) {
	return nil, nil
}

func (r *fakeAffectRepo) Save(ctx context.Context, config *entity.AffectConfiguration) error {
	return nil
}

// --- collaborators ---

type scriptedLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	delay   time.Duration
	prompts []string
}

func (p *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.mu.Lock()
	if len(history) > 0 {
		p.prompts = append(p.prompts, history[len(history)-1].Content)
	}
	reply, err, delay := p.reply, p.err, p.delay
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (p *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }
