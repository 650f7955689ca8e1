package mock

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-interview-voice-client/internal/speech"
)

// testListener implements speech.Listener for testing
type testListener struct {
	mu      sync.Mutex
	started bool
	ended   bool
	results [][]speech.Result
	errors  []speech.ErrorReason
}

func (l *testListener) OnStart() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = true
}

func (l *testListener) OnResult(results []speech.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, results)
}

func (l *testListener) OnError(reason speech.ErrorReason, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, reason)
}

func (l *testListener) OnEnd() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ended = true
}

func (l *testListener) snapshot() (bool, bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started, l.ended, len(l.results)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCapability_StartEmitsResults(t *testing.T) {
	cap := New(WithInterval(5 * time.Millisecond))
	listener := &testListener{}

	if err := cap.Start(context.Background(), listener); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer cap.Stop()

	waitFor(t, func() bool {
		started, _, n := listener.snapshot()
		return started && n >= 4
	})
}

func TestCapability_StartWhileActiveFails(t *testing.T) {
	cap := New(WithInterval(5 * time.Millisecond))
	listener := &testListener{}

	if err := cap.Start(context.Background(), listener); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer cap.Stop()

	if err := cap.Start(context.Background(), listener); err == nil {
		t.Error("expected error starting an already-active session")
	}
}

func TestCapability_StopDeliversEnd(t *testing.T) {
	cap := New(WithInterval(5 * time.Millisecond))
	listener := &testListener{}

	if err := cap.Start(context.Background(), listener); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	waitFor(t, func() bool {
		started, _, _ := listener.snapshot()
		return started
	})

	if err := cap.Stop(); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}

	waitFor(t, func() bool {
		_, ended, _ := listener.snapshot()
		return ended
	})
}

func TestCapability_StopIdempotent(t *testing.T) {
	cap := New()

	if err := cap.Stop(); err != nil {
		t.Errorf("stop on inactive session should be a no-op, got %v", err)
	}
	if err := cap.Stop(); err != nil {
		t.Errorf("second stop should be a no-op, got %v", err)
	}
}

func TestCapability_FinalFollowsPartials(t *testing.T) {
	script := []SimulatedUtterance{
		{Partials: []string{"hello", "hello world"}, Final: "hello world", Confidence: 0.95},
	}
	cap := New(WithUtterances(script), WithInterval(5*time.Millisecond))
	listener := &testListener{}

	if err := cap.Start(context.Background(), listener); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer cap.Stop()

	waitFor(t, func() bool {
		_, _, n := listener.snapshot()
		return n >= 3
	})

	listener.mu.Lock()
	defer listener.mu.Unlock()
	if listener.results[0][0].Final || listener.results[1][0].Final {
		t.Error("expected interim results before the final")
	}
	if !listener.results[2][0].Final {
		t.Error("expected third result to be final")
	}
	if listener.results[2][0].Text != "hello world" {
		t.Errorf("unexpected final text: %q", listener.results[2][0].Text)
	}
	if listener.results[2][0].Confidence != 0.95 {
		t.Errorf("unexpected confidence: %v", listener.results[2][0].Confidence)
	}
}
