package storage

import (
	"errors"
	"testing"
)

func TestLifecycle_Transitions(t *testing.T) {
	t.Parallel()

	var l Lifecycle
	if l.State() != StateUnopened {
		t.Fatalf("zero state = %s", l.State())
	}
	if err := l.Require("WriteBatch", StateSchemaReady); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("WriteBatch before schema: %v", err)
	}

	l.Advance(StateSchemaReady)
	if err := l.Require("WriteBatch", StateSchemaReady); err != nil {
		t.Fatalf("WriteBatch in schema_ready: %v", err)
	}

	l.Advance(StateIndexesBuilt)
	if err := l.Require("WriteBatch", StateSchemaReady); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("WriteBatch after indexes: %v", err)
	}
	if err := l.Require("Stats", StateSchemaReady, StateIndexesBuilt); err != nil {
		t.Fatalf("Stats after indexes: %v", err)
	}

	if !l.MarkClosed() {
		t.Fatal("first MarkClosed should report true")
	}
	if l.MarkClosed() {
		t.Fatal("second MarkClosed should report false")
	}
	l.Advance(StateSchemaReady)
	if l.State() != StateClosed {
		t.Fatalf("Closed must be terminal, got %s", l.State())
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	for s, want := range map[State]string{
		StateUnopened:     "unopened",
		StateSchemaReady:  "schema_ready",
		StateIndexesBuilt: "indexes_built",
		StateClosed:       "closed",
		State(42):         "State(42)",
	} {
		if got := s.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}
