// Package speech defines the interface for continuous speech recognition
// capabilities (Google Cloud, mock, etc.).
package speech

import "context"

// Result is one recognition hypothesis reported in an update event.
// A non-final result is a revisable hypothesis for the current utterance
// and will be re-reported as it evolves; a final result will not change.
type Result struct {
	Text       string
	Final      bool
	Confidence float64
}

// ErrorReason is the fixed vocabulary of recognition error signals.
type ErrorReason int

const (
	// ReasonPermissionDenied - microphone access was denied.
	ReasonPermissionDenied ErrorReason = iota
	// ReasonNoSpeech - no speech was detected; recognition continues.
	ReasonNoSpeech
	// ReasonAborted - the session was aborted by the caller.
	ReasonAborted
	// ReasonOther - any other engine failure.
	ReasonOther
)

// String returns the string representation of the reason.
func (r ErrorReason) String() string {
	switch r {
	case ReasonPermissionDenied:
		return "permission-denied"
	case ReasonNoSpeech:
		return "no-speech"
	case ReasonAborted:
		return "aborted"
	default:
		return "other"
	}
}

// Listener receives recognition events from the capability. Events arrive
// in occurrence order on the capability's own schedule, never synchronously
// from Start or Stop.
type Listener interface {
	// OnStart is called once the engine has confirmed the session started.
	OnStart()

	// OnResult is called for each incremental update. The slice carries the
	// final and interim hypotheses reported by that update, in event order.
	OnResult(results []Result)

	// OnError is called when the engine signals an error.
	OnError(reason ErrorReason, detail string)

	// OnEnd is called exactly once when the session ends, whether by Stop,
	// a terminal error, or a natural end.
	OnEnd()
}

// Capability is a continuous speech recognition engine. Only one session
// may be active per capability instance; the microphone (or other audio
// source) is held exclusively while a session is active.
type Capability interface {
	// Start begins a continuous recognition session. Both Start and Stop are
	// fire-and-forget: confirmation arrives via OnStart/OnEnd events.
	Start(ctx context.Context, l Listener) error

	// Stop requests graceful termination. The engine delivers OnEnd
	// asynchronously. Stopping an inactive session is a no-op.
	Stop() error
}

// PhraseHinter is implemented by capabilities that accept vocabulary hints
// to bias recognition toward domain terms. Hints only improve accuracy;
// correctness never depends on them.
type PhraseHinter interface {
	SetPhraseHints(phrases []string)
}
