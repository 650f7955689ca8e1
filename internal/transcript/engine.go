package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"ai-interview-voice-client/internal/observability/logging"
	"ai-interview-voice-client/internal/observability/metrics"
	"ai-interview-voice-client/internal/speech"
)

// Classified recognition errors surfaced to the presentation layer.
var (
	ErrUnsupportedCapability  = errors.New("speech recognition is not supported in this environment")
	ErrMicrophoneAccessDenied = errors.New("microphone access denied")
	ErrRecognitionFailure     = errors.New("speech recognition failed")
)

// Snapshot is the externally visible state of the engine.
type Snapshot struct {
	FinalizedText string
	PendingText   string
	Active        bool
	Supported     bool
	LastError     error
}

// Sink receives corrected transcript text as it is produced. Optional;
// used to feed transcript events to downstream consumers.
type Sink interface {
	Partial(text string)
	Final(text string, confidence float64)
}

// Engine wraps a continuous speech recognition capability and exposes a
// stable, corrected text stream plus recording controls. It implements
// speech.Listener to receive events from the capability.
//
// Finalized text is append-only within a session; pending text is the
// latest not-yet-finalized hypothesis and is replaced wholesale on every
// update, never accumulated.
type Engine struct {
	capability speech.Capability
	lifecycle  *Lifecycle
	metrics    *metrics.Metrics
	log        zerolog.Logger

	mu        sync.Mutex
	finalized string
	pending   string
	lastErr   error
	sink      Sink
	subs      []func()
}

// NewEngine creates a transcript engine backed by the given capability.
// A nil capability means recognition is unsupported: Start fails with
// ErrUnsupportedCapability and nothing else changes.
func NewEngine(capability speech.Capability) *Engine {
	return &Engine{
		capability: capability,
		lifecycle:  NewLifecycle(),
		metrics:    metrics.DefaultMetrics,
		log:        logging.WithComponent("transcript-engine"),
	}
}

// Supported reports whether a recognition capability is available.
func (e *Engine) Supported() bool {
	return e.capability != nil
}

// SetSink registers a transcript sink. Must be called before Start.
func (e *Engine) SetSink(s Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = s
}

// Subscribe registers a callback invoked after every state change.
func (e *Engine) Subscribe(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// Start begins a new recognition session, clearing any prior transcript and
// error. The session becomes active asynchronously once the engine confirms
// the start. Starting while a session is underway fails with
// ErrSessionActive and leaves the existing session untouched.
func (e *Engine) Start(ctx context.Context) error {
	if !e.Supported() {
		e.mu.Lock()
		e.lastErr = ErrUnsupportedCapability
		e.mu.Unlock()
		e.notify()
		return ErrUnsupportedCapability
	}

	if err := e.lifecycle.Begin(); err != nil {
		return err
	}

	e.mu.Lock()
	e.finalized = ""
	e.pending = ""
	e.lastErr = nil
	e.mu.Unlock()

	// Vocabulary hints are best-effort: absence only costs accuracy.
	if hinter, ok := e.capability.(speech.PhraseHinter); ok {
		hinter.SetPhraseHints(PhraseHints())
	}

	if err := e.capability.Start(ctx, e); err != nil {
		e.lifecycle.End()
		e.mu.Lock()
		e.lastErr = fmt.Errorf("%w: %v", ErrRecognitionFailure, err)
		e.mu.Unlock()
		e.notify()
		return err
	}

	e.metrics.RecordRecognitionStart()
	e.log.Debug().Msg("Recognition session start requested")
	e.notify()
	return nil
}

// Stop requests graceful termination of the current session. The engine
// delivers the end notification asynchronously. Stopping when no session
// is underway is a no-op.
func (e *Engine) Stop() error {
	if !e.lifecycle.RequestStop() {
		return nil
	}
	e.log.Debug().Msg("Recognition session stop requested")
	return e.capability.Stop()
}

// Reset clears the finalized and pending text and any classified error
// without affecting the session itself.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.finalized = ""
	e.pending = ""
	e.lastErr = nil
	e.mu.Unlock()
	e.notify()
}

// Snapshot returns the current externally visible state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		FinalizedText: e.finalized,
		PendingText:   e.pending,
		Active:        e.lifecycle.Active(),
		Supported:     e.capability != nil,
		LastError:     e.lastErr,
	}
}

// FullTranscript returns the finalized text plus the pending hypothesis.
func (e *Engine) FullTranscript() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finalized + e.pending
}

// --- speech.Listener implementation ---

// OnStart is called once the engine confirms the session started.
func (e *Engine) OnStart() {
	e.lifecycle.Confirm()
	e.log.Debug().Msg("Recognition session active")
	e.notify()
}

// OnResult partitions an incremental update into final and interim results,
// in event order. Final results are corrected and appended with a trailing
// separator; the concatenated interim results replace the pending text
// wholesale, since the engine re-reports the evolving hypothesis.
func (e *Engine) OnResult(results []speech.Result) {
	type finalOut struct {
		text       string
		confidence float64
	}
	var finals []finalOut
	var interim strings.Builder

	e.mu.Lock()
	for _, r := range results {
		if r.Final {
			corrected, applied := correct(r.Text)
			e.finalized += corrected + " "
			e.metrics.RecordFinalTranscript()
			e.metrics.RecordCorrections(applied)
			finals = append(finals, finalOut{text: corrected, confidence: r.Confidence})
		} else {
			interim.WriteString(r.Text)
			e.metrics.RecordPartialTranscript()
		}
	}
	e.pending = interim.String()
	pending := e.pending
	sink := e.sink
	e.mu.Unlock()

	if sink != nil {
		for _, f := range finals {
			sink.Final(f.text, f.confidence)
		}
		if pending != "" {
			sink.Partial(pending)
		}
	}
	e.notify()
}

// OnError classifies an engine error signal. No-speech and caller-initiated
// aborts are expected conditions, never surfaced; everything else stops the
// session with a user-visible error.
func (e *Engine) OnError(reason speech.ErrorReason, detail string) {
	switch reason {
	case speech.ReasonNoSpeech:
		// Not an error; recognition continues listening.
		e.log.Debug().Msg("No speech detected, continuing")
		return
	case speech.ReasonAborted:
		// Expected outcome of Stop.
		return
	case speech.ReasonPermissionDenied:
		e.mu.Lock()
		e.lastErr = ErrMicrophoneAccessDenied
		e.mu.Unlock()
	default:
		e.mu.Lock()
		e.lastErr = fmt.Errorf("%w: %s", ErrRecognitionFailure, detail)
		e.mu.Unlock()
	}

	e.metrics.RecordRecognitionError(reason.String())
	e.log.Warn().Str("reason", reason.String()).Str("detail", detail).Msg("Recognition error, session ended")
	e.terminate()
}

// OnEnd is called when the session ends for any reason.
func (e *Engine) OnEnd() {
	e.log.Debug().Msg("Recognition session ended")
	e.terminate()
}

// terminate lands the lifecycle on IDLE and clears the pending hypothesis.
// Pending text never survives a terminal transition.
func (e *Engine) terminate() {
	wasUnderway := !e.lifecycle.Idle()
	e.lifecycle.End()

	e.mu.Lock()
	e.pending = ""
	e.mu.Unlock()

	if wasUnderway {
		e.metrics.RecordRecognitionEnd()
	}
	e.notify()
}

// notify invokes subscribers outside the state lock.
func (e *Engine) notify() {
	e.mu.Lock()
	subs := make([]func(), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
