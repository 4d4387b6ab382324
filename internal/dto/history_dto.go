package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertHistoryRequest struct {
	Text string `json:"text" validate:"required"`
}

type HistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	Summary   string    `json:"summary"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TurnRecordedMessage is the payload published on the internal bus after a
// completed turn, consumed by the history summarizer.
type TurnRecordedMessage struct {
	UserId    uuid.UUID `json:"user_id"`
	SessionId uuid.UUID `json:"session_id"`
}
