package events

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Handler reacts to one event. Handlers run for their side effects;
// a returned error is logged and swallowed, never propagated to the
// caller of Dispatch.
type Handler func(ctx context.Context, e Event) error

// Dispatcher maps event kinds to ordered handler lists. Build it once
// at application wiring time and treat it as immutable afterwards:
// Register is not safe to call concurrently with Dispatch, and nothing
// re-registers at runtime. Tests construct a fresh Dispatcher instead
// of clearing shared state.
type Dispatcher struct {
	handlers map[Kind][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind][]Handler)}
}

// Register appends a handler for a kind. Handlers run in registration
// order; registering the same handler twice runs it twice.
func (d *Dispatcher) Register(kind Kind, h Handler) {
	d.handlers[kind] = append(d.handlers[kind], h)
}

// HandlerCount returns how many handlers are registered for a kind.
func (d *Dispatcher) HandlerCount(kind Kind) int {
	return len(d.handlers[kind])
}

// Dispatch invokes every handler registered for the event's exact kind,
// synchronously, on the calling goroutine. Each invocation is isolated:
// an error or panic in one handler is logged and does not stop later
// handlers, and Dispatch itself never fails. Notification and email
// delivery are best-effort and must not fail the mutation that
// triggered them.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	kind := e.EventKind()
	hs := d.handlers[kind]

	log.Debug().Str("event", string(kind)).Int("handlers", len(hs)).Msg("dispatching event")

	for i, h := range hs {
		fireAndLog(ctx, kind, i, h, e)
	}
}

// fireAndLog runs one handler, converting any error or panic into a
// log line. The loud error log is the reconciliation trail for dropped
// notifications.
func fireAndLog(ctx context.Context, kind Kind, idx int, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("event", string(kind)).Int("handler", idx).Any("panic", r).Msg("event handler panicked")
		}
	}()

	if err := h(ctx, e); err != nil {
		log.Error().Err(err).Str("event", string(kind)).Int("handler", idx).Msg("event handler failed")
	}
}
