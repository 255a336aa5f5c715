package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventFreeze EventType = "freeze"
	EventThaw   EventType = "thaw"
	EventFlush  EventType = "flush"
)

// PersistEvent describes the outcome of a single freeze, thaw or flush call.
type PersistEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	Branches  int           `json:"branches"`
	Nodes     int           `json:"nodes"` // stateful nodes written or restored
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnFreeze func(context.Context, *PersistEvent)
	OnThaw   func(context.Context, *PersistEvent)
	OnFlush  func(context.Context, *PersistEvent)
}

// Emit dispatches the event to the matching hook, if any.
func (h LifecycleHooks) Emit(ctx context.Context, e *PersistEvent) {
	var fn func(context.Context, *PersistEvent)
	switch e.Type {
	case EventFreeze:
		fn = h.OnFreeze
	case EventThaw:
		fn = h.OnThaw
	case EventFlush:
		fn = h.OnFlush
	}
	if fn != nil {
		fn(ctx, e)
	}
}
