package datadog

import (
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"steamload/internal/metrics"
)

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	if b, err := NewBackend(Config{}); err == nil || b != nil {
		t.Fatalf("NewBackend(empty) = %v, %v; want nil, error", b, err)
	}
}

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	if got := labelsToTags(nil); got != nil {
		t.Fatalf("labelsToTags(nil) = %v, want nil", got)
	}
	got := labelsToTags(metrics.Labels{"step": "load", "job": "steamload", "status": "success"})
	want := []string{"job:steamload", "status:success", "step:load"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("labelsToTags = %v, want %v", got, want)
	}
}

func TestZeroBackendIsNoop(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.RowsTotal, 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

/*
TestBackend_SendsOverUDP runs a throwaway UDP listener as the agent and checks
the DogStatsD lines that reach it after Flush.
*/
func TestBackend_SendsOverUDP(t *testing.T) {
	t.Parallel()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("udp listen unavailable: %v", err)
	}
	defer conn.Close()

	b, err := NewBackend(Config{
		Addr:       conn.LocalAddr().String(),
		GlobalTags: []string{"run_id:r1"},
	})
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter(metrics.RowsTotal, 5, metrics.Labels{"kind": "inserted"})
	b.ObserveHistogram(metrics.StepDuration, 0.25, metrics.Labels{"step": "load"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got strings.Builder
	buf := make([]byte, 64*1024)
	for !strings.Contains(got.String(), "|h") || !strings.Contains(got.String(), "|c") {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			t.Fatalf("read datagram: %v (got so far %q)", err, got.String())
		}
		got.Write(buf[:n])
		got.WriteByte('\n')
	}

	out := got.String()
	for _, want := range []string{
		"steamload_rows_total:5|c",
		"kind:inserted",
		"steamload_step_duration_seconds:0.25|h",
		"run_id:r1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("payload %q missing %q", out, want)
		}
	}
}
