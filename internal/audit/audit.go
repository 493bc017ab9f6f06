// Package audit captures key engine actions for later inspection. Events are
// transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture one action.
type Event struct {
	Timestamp time.Time
	Actor     string // wallet address, or "anonymous" for open verification
	Subject   string // fingerprint or record ID acted on
	Action    string
	Decision  string
	Reason    string
	RequestID string
	Device    string // browser/OS summary from the device middleware
}

// Actions recorded by the engine.
const (
	ActionVerify       = "record_verified"
	ActionUpload       = "record_uploaded"
	ActionAddTeacher   = "teacher_added"
	ActionModeToggled  = "ledger_mode_toggled"
	ActionDenied       = "permission_denied"
	ActionDeployLedger = "ledger_deployed"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor string) ([]Event, error)
}

// Publisher is the narrow emission interface services depend on.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// StorePublisher emits events straight into a store, stamping the timestamp
// if the caller left it zero.
type StorePublisher struct {
	store Store
}

// NewStorePublisher wraps a store as a publisher.
func NewStorePublisher(store Store) *StorePublisher {
	return &StorePublisher{store: store}
}

// Emit appends the event to the backing store.
func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return p.store.Append(ctx, event)
}
