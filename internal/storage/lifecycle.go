package storage

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidState is returned when a Writer operation is called out of order.
var ErrInvalidState = errors.New("storage: invalid writer state")

// State is a Writer lifecycle state.
type State int

const (
	StateUnopened State = iota
	StateSchemaReady
	StateIndexesBuilt
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateSchemaReady:
		return "schema_ready"
	case StateIndexesBuilt:
		return "indexes_built"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Lifecycle tracks a Writer's state. Backends embed it and guard every
// operation with Require. The zero value is StateUnopened.
//
// Legal transitions:
//
//	Unopened     --EnsureSchema--> SchemaReady
//	SchemaReady  --EnsureSchema--> SchemaReady (idempotent)
//	SchemaReady  --BuildIndexes--> IndexesBuilt
//	any          --Close-------->  Closed
type Lifecycle struct {
	mu    sync.Mutex
	state State
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Require returns ErrInvalidState unless the current state is one of allowed.
func (l *Lifecycle) Require(op string, allowed ...State) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range allowed {
		if l.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s not allowed in state %s", ErrInvalidState, op, l.state)
}

// Advance moves to next. Closed is terminal and never left.
func (l *Lifecycle) Advance(next State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateClosed {
		return
	}
	l.state = next
}

// MarkClosed moves to Closed and reports whether this call did it.
func (l *Lifecycle) MarkClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateClosed {
		return false
	}
	l.state = StateClosed
	return true
}
