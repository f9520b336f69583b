// Package connlife implements the per-connection lifecycle state machine
// from spec.md §4.5: Open, Closing, Closed. It tracks lifecycle only; it
// does not own the socket or the dispatcher loop.
//
// This wraps looplab/fsm directly rather than through a generic
// multi-source/guard/action indirection layer: the connection lifecycle has
// exactly two events, no guard conditions, and no per-transition actions, so
// the indirection bought nothing a direct looplab/fsm.EventDesc table
// doesn't already give for free.
package connlife

// file: internal/connlife/connlife.go

import (
	"context"

	"github.com/cockroachdb/errors"
	lfsm "github.com/looplab/fsm"

	"github.com/dkoosis/zedrahost/internal/logging"
)

// State is one of the connection lifecycle's three states.
type State string

// States from spec.md §4.5.
const (
	StateOpen    State = "open"
	StateClosing State = "closing"
	StateClosed  State = "closed"
)

// Event is one of the two transitions spec.md §4.5 names.
type Event string

const (
	// EventStreamEnded fires on read error, framing error, or graceful EOF.
	EventStreamEnded Event = "stream_ended"
	// EventHandlerDrained fires once the in-flight handler (if any) has completed.
	EventHandlerDrained Event = "handler_drained"
)

// Machine is one connection's lifecycle tracker, built fresh per accepted
// connection and discarded when it closes.
type Machine struct {
	fsm    *lfsm.FSM
	logger logging.Logger
}

// New builds a connection lifecycle machine starting in StateOpen.
func New(logger logging.Logger) (*Machine, error) {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	log := logger.WithField("component", "connlife")

	m := &Machine{logger: log}
	m.fsm = lfsm.NewFSM(
		string(StateOpen),
		lfsm.Events{
			{Name: string(EventStreamEnded), Src: []string{string(StateOpen)}, Dst: string(StateClosing)},
			{Name: string(EventHandlerDrained), Src: []string{string(StateClosing)}, Dst: string(StateClosed)},
		},
		lfsm.Callbacks{
			"enter_state": func(_ context.Context, e *lfsm.Event) {
				log.Debug("connection lifecycle transition", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
	return m, nil
}

// CurrentState returns the machine's current state.
func (m *Machine) CurrentState() State {
	return State(m.fsm.Current())
}

// MarkStreamEnded transitions Open -> Closing. Safe to call once per connection.
func (m *Machine) MarkStreamEnded(ctx context.Context) error {
	return m.fire(ctx, EventStreamEnded)
}

// MarkDrained transitions Closing -> Closed once the in-flight handler, if
// any, has returned.
func (m *Machine) MarkDrained(ctx context.Context) error {
	return m.fire(ctx, EventHandlerDrained)
}

func (m *Machine) fire(ctx context.Context, event Event) error {
	if err := m.fsm.Event(ctx, string(event)); err != nil {
		m.logger.Warn("connection lifecycle transition rejected", "event", event, "from", m.CurrentState(), "error", err)
		return errors.Wrapf(err, "cannot fire %q from state %q", event, m.CurrentState())
	}
	return nil
}
