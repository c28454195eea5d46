package audit

import (
	"context"
	"time"
)

// admin actions tracked in the audit log
const (
	ActionStatusChange     = "status_change"
	ActionUserUpdate       = "user_update"
	ActionUserDelete       = "user_delete"
	ActionResetTokenIssued = "reset_token_issued"
)

// Entry is an immutable record of an administrative action.
// Entries are append-only; nothing ever updates or deletes them.
type Entry struct {
	ID         int64     `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	UserID     string    `json:"userId"`
	FromStatus string    `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
}
