package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeEventSync = "calendar:sync_event"

// Sync actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// SyncEventPayload describes one mirror operation against the remote
// calendar. RemoteID is only set for delete, since the local row is
// already gone by the time the task runs.
type SyncEventPayload struct {
	EventID  uuid.UUID `json:"event_id"`
	UserID   uuid.UUID `json:"user_id"`
	Action   string    `json:"action"`
	RemoteID string    `json:"remote_id,omitempty"`
}

func NewSyncEventTask(payload SyncEventPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEventSync, data, asynq.MaxRetry(3)), nil
}
