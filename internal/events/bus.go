// Package events provides the in-process event bus reminder components
// publish to and subscribe on.
package events

import (
	"context"
	"log/slog"
	"sync"
)

// Event names published by the reminder core.
const (
	// ReminderDue fires when a reminder's due time has passed and it has
	// not fired within the suppression window. Payload: uid, summary,
	// due, user_id, list_id.
	ReminderDue = "user_reminder_due"

	// ReminderListUpdated fires after any mutation of a reminder list.
	// Payload: list_id.
	ReminderListUpdated = "user_reminder_list_updated"
)

// Payload carries the event attributes.
type Payload map[string]any

// Handler processes one emitted event.
type Handler func(ctx context.Context, payload Payload)

// Bus is an in-memory named-event dispatcher. Emission is
// fire-and-forget: handlers run synchronously, a panicking handler is
// logged and does not affect the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger.With("component", "event_bus"),
	}
}

// Subscribe registers a handler for the named event.
func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Emit dispatches the payload to every handler subscribed to name.
// There is no acknowledgement and no error return.
func (b *Bus) Emit(ctx context.Context, name string, payload Payload) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[name]))
	copy(handlers, b.handlers[name])
	b.mu.RUnlock()

	b.logger.Debug("emitting event", "event", name, "handler_count", len(handlers))

	for _, handler := range handlers {
		b.dispatch(ctx, name, handler, payload)
	}
}

func (b *Bus) dispatch(ctx context.Context, name string, handler Handler, payload Payload) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event", name, "panic", r)
		}
	}()
	handler(ctx, payload)
}
