package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters   []counterCall
	callsHistograms []histCall
	flushCount      int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsHistograms = append(f.callsHistograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	SetBackend(fb)
	t.Cleanup(Reset)
	return fb
}

func TestRecordStep_SuccessAndFailure(t *testing.T) {
	fb := install(t)

	RecordStep("jobA", "read", nil, 2*time.Second)
	RecordStep("jobB", "load", errors.New("boom"), 1500*time.Millisecond)

	if len(fb.callsCounters) != 2 {
		t.Fatalf("expected 2 counter calls, got %d", len(fb.callsCounters))
	}
	if len(fb.callsHistograms) != 2 {
		t.Fatalf("expected 2 histogram calls, got %d", len(fb.callsHistograms))
	}

	cc0 := fb.callsCounters[0]
	if cc0.name != StepTotal || cc0.delta != 1 {
		t.Fatalf("counter[0] = %#v; want name=%s, delta=1", cc0, StepTotal)
	}
	if cc0.labels["job"] != "jobA" || cc0.labels["step"] != "read" || cc0.labels["status"] != StatusSuccess {
		t.Fatalf("counter[0].labels = %v", cc0.labels)
	}

	h0 := fb.callsHistograms[0]
	if h0.name != StepDuration {
		t.Fatalf("hist[0].name=%q; want %s", h0.name, StepDuration)
	}
	if h0.value < 2.0-0.001 || h0.value > 2.0+0.001 {
		t.Fatalf("hist[0].value=%v; want ~2.0", h0.value)
	}

	cc1 := fb.callsCounters[1]
	if cc1.labels["status"] != StatusFailure {
		t.Fatalf("counter[1].labels[status]=%q; want %q", cc1.labels["status"], StatusFailure)
	}
	if h1 := fb.callsHistograms[1]; h1.value < 1.5-0.001 || h1.value > 1.5+0.001 {
		t.Fatalf("hist[1].value=%v; want ~1.5", h1.value)
	}
}

func TestRecordRowBatchesAndIndexFailures(t *testing.T) {
	fb := install(t)

	RecordRow("jobX", "read", 3)
	RecordRow("jobX", "read", 0) // ignored
	RecordRow("jobY", "inserted", 5)
	RecordBatches("jobZ", 2)
	RecordBatches("jobZ", -1) // ignored
	RecordIndexFailures("jobZ", 1)
	RecordIndexFailures("jobZ", 0) // ignored

	tests := []struct {
		name  string
		delta float64
		job   string
		kind  string
	}{
		{RowsTotal, 3, "jobX", "read"},
		{RowsTotal, 5, "jobY", "inserted"},
		{BatchesTotal, 2, "jobZ", ""},
		{IndexFailures, 1, "jobZ", ""},
	}
	if len(fb.callsCounters) != len(tests) {
		t.Fatalf("expected %d counter calls, got %d", len(tests), len(fb.callsCounters))
	}
	for i, tt := range tests {
		c := fb.callsCounters[i]
		if c.name != tt.name || c.delta != tt.delta {
			t.Fatalf("counter[%d] = %#v; want name=%s delta=%v", i, c, tt.name, tt.delta)
		}
		if c.labels["job"] != tt.job || c.labels["kind"] != tt.kind {
			t.Fatalf("counter[%d] labels = %v; want job=%s kind=%s", i, c.labels, tt.job, tt.kind)
		}
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	fb := install(t)

	if current() != Backend(fb) {
		t.Fatal("SetBackend did not replace global backend")
	}
	if err := Flush(); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	if fb.flushCount != 1 {
		t.Fatalf("expected flushCount=1, got %d", fb.flushCount)
	}

	// SetBackend(nil) should not nil out the backend.
	SetBackend(nil)
	if current() != Backend(fb) {
		t.Fatal("SetBackend(nil) should not change backend")
	}

	Reset()
	if _, ok := current().(nopBackend); !ok {
		t.Fatalf("Reset installed %T, want nopBackend", current())
	}
}
