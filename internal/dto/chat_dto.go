package dto

import (
	"time"

	"github.com/google/uuid"
)

type ResumeSessionRequest struct {
	SessionId *uuid.UUID `json:"session_id"`
}

type MessageDTO struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	AffectTag string    `json:"affect_tag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionResponse struct {
	SessionId uuid.UUID     `json:"session_id"`
	Title     string        `json:"title"`
	StartedAt time.Time     `json:"started_at"`
	Messages  []*MessageDTO `json:"messages"`
}

type SendMessageRequest struct {
	SessionId *uuid.UUID `json:"session_id"`
	Content   string     `json:"content" validate:"required"`
}

// CrisisResourceDTO is ephemeral: returned in responses, never persisted.
type CrisisResourceDTO struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Note    string `json:"note,omitempty"`
}

type CrisisPayloadDTO struct {
	Message    string              `json:"message"`
	Resources  []CrisisResourceDTO `json:"resources"`
	Disclaimer string              `json:"disclaimer"`
}

type SendMessageResponse struct {
	SessionId uuid.UUID         `json:"session_id"`
	Sent      *MessageDTO       `json:"sent"`
	Reply     *MessageDTO       `json:"reply"`
	Crisis    *CrisisPayloadDTO `json:"crisis,omitempty"`
}

type SessionSummaryResponse struct {
	Id             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	MessageCount   int64      `json:"message_count"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
}

type EndSessionRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
}
