package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyEventType = errors.New("event type cannot be empty")

// TaskRequestEvent asks for a background task of Type to be created from
// Payload. Emitters never see the task package; handlers decode the payload.
type TaskRequestEvent struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func (e *TaskRequestEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewTaskRequestEvent marshals payload and stamps the event with a new ID
// and the current UTC time.
func NewTaskRequestEvent(eventType string, payload any) (*TaskRequestEvent, error) {
	if eventType == "" {
		return nil, ErrEmptyEventType
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return &TaskRequestEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type EventHandler interface {
	HandleEvent(ctx context.Context, event *TaskRequestEvent) error
}

type EventEmitter interface {
	EmitEvent(ctx context.Context, event *TaskRequestEvent) error
}
