package state

import (
	"context"
	"encoding/json"
	"time"
)

// Step is the position of a chat in the title dialogue.
type Step string

const (
	StepAskPurpose      Step = "ASK_PURPOSE"
	StepAskContent      Step = "ASK_CONTENT"
	StepAskRequirements Step = "ASK_REQUIREMENTS"
	StepGenerating      Step = "GENERATING"
	StepResults         Step = "RESULTS"
)

// TelegramSession maps a telegram user to a title session with UI state
type TelegramSession struct {
	UserID    int64           `json:"user_id"`
	SessionID string          `json:"session_id,omitempty"`
	StateData json.RawMessage `json:"state_data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StateData contains telegram-specific UI state
type StateData struct {
	Version int  `json:"version,omitempty"`
	Step    Step `json:"step,omitempty"`

	// Dialogue answers collected before submission
	Purpose string `json:"purpose,omitempty"`
	Content string `json:"content,omitempty"`

	// Message carrying the result keyboard (for editing)
	ResultMessageID int `json:"result_message_id,omitempty"`

	// Processing state (for idempotency)
	IsProcessing      bool      `json:"is_processing,omitempty"`
	ProcessingStarted time.Time `json:"processing_started,omitempty"`
}

const (
	// StateDataCurrentVersion is the current version of StateData
	StateDataCurrentVersion = 1
)

// Storage defines the interface for telegram session persistence
type Storage interface {
	Get(ctx context.Context, userID int64) (*TelegramSession, error)
	Set(ctx context.Context, session *TelegramSession) error
	Delete(ctx context.Context, userID int64) error
}
