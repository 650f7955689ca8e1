// Package interview sequences calls to the remote interview service and
// tracks one mutable session record with derived UI status.
package interview

import "fmt"

// Status represents the lifecycle state of an interview session.
type Status int

const (
	// StatusIdle - No session; a new interview can be started.
	StatusIdle Status = iota
	// StatusStarting - Start requested, waiting on the service.
	StatusStarting
	// StatusQuestioning - A question is posed, waiting for an answer.
	StatusQuestioning
	// StatusRecording - The user is speaking an answer. Derived overlay of
	// StatusQuestioning driven by the transcript engine's active flag; the
	// controller itself never transitions here.
	StatusRecording
	// StatusAssessing - An answer is being assessed by the service.
	StatusAssessing
	// StatusComplete - The interview is finished; a report may be present.
	StatusComplete
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusStarting:
		return "starting"
	case StatusQuestioning:
		return "questioning"
	case StatusRecording:
		return "recording"
	case StatusAssessing:
		return "assessing"
	case StatusComplete:
		return "complete"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Overlay folds the transcript engine's recording state into the status for
// presentation: questioning becomes recording while the microphone is live.
func (s Status) Overlay(recording bool) Status {
	if s == StatusQuestioning && recording {
		return StatusRecording
	}
	return s
}
