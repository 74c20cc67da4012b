package events

import (
	"strconv"

	"zklend/core/types"
)

// Payload is implemented by typed event structs that can render themselves
// into the generic ledger event shape.
type Payload interface {
	EventType() string
	Event() *types.Event
}

// Emitter receives events produced by module engines during state
// transitions.
type Emitter interface {
	Emit(Payload)
}

// NoopEmitter drops every event. Engines default to it so callers that do not
// care about events pay nothing.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Payload) {}

// MemoryEmitter collects emitted events in order. Used by tests and by the
// gateway to surface the events of a single operation.
type MemoryEmitter struct {
	Events []*types.Event
}

func (m *MemoryEmitter) Emit(p Payload) {
	if p == nil {
		return
	}
	m.Events = append(m.Events, p.Event())
}

func uintToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}
