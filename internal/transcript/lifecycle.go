// Package transcript owns the lifecycle of a continuous speech recognition
// session: start/stop, incremental result aggregation, vocabulary correction,
// and error classification.
package transcript

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of a recognition session.
type State int

const (
	// StateIdle - No session is active.
	StateIdle State = iota
	// StateStarting - Start requested, waiting for engine confirmation.
	StateStarting
	// StateListening - Session confirmed active; results may arrive.
	StateListening
	// StateStopping - Stop requested, waiting for the end notification.
	StateStopping
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarting:
		return "STARTING"
	case StateListening:
		return "LISTENING"
	case StateStopping:
		return "STOPPING"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// ErrSessionActive rejects starting while a session is already underway.
// Overlapping recognition sessions would contend for the microphone.
var ErrSessionActive = errors.New("recognition session already active")

// Lifecycle manages the state machine for one recognition session.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	IDLE → STARTING → LISTENING → STOPPING → IDLE
//	          │            │
//	          │            └── End() ──→ IDLE (error or natural end)
//	          └── End() ──→ IDLE (start failed)
//
// Rules:
//   - Begin() is only valid from IDLE; any other state rejects it.
//   - Confirm() moves STARTING → LISTENING; a stray confirmation is ignored.
//   - RequestStop() from STARTING or LISTENING; idempotent otherwise.
//   - End() is valid from any state and always lands on IDLE.
type Lifecycle struct {
	mu    sync.RWMutex
	state State
}

// NewLifecycle creates a lifecycle in IDLE state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateIdle}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Active returns true once the engine has confirmed the session.
func (l *Lifecycle) Active() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateListening
}

// Idle returns true if no session is underway.
func (l *Lifecycle) Idle() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateIdle
}

// Begin transitions IDLE → STARTING. Returns ErrSessionActive if a session
// is already underway in any form.
func (l *Lifecycle) Begin() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateIdle {
		return ErrSessionActive
	}
	l.state = StateStarting
	return nil
}

// Confirm transitions STARTING → LISTENING. Confirmations arriving in any
// other state are ignored; the engine's callback schedule is its own.
func (l *Lifecycle) Confirm() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateStarting {
		l.state = StateListening
	}
}

// RequestStop transitions STARTING or LISTENING → STOPPING.
// Returns true if a stop was actually requested; false makes stop a no-op
// when no session is underway.
func (l *Lifecycle) RequestStop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case StateStarting, StateListening:
		l.state = StateStopping
		return true
	default:
		return false
	}
}

// End transitions to IDLE from any state. Idempotent; covers graceful stop,
// terminal errors, and natural session end alike.
func (l *Lifecycle) End() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateIdle
}
