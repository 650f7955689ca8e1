// Package models defines the data structures for transcript events.
package models

// TranscriptPartial represents an interim transcript update for the answer
// currently being spoken.
type TranscriptPartial struct {
	EventType string `json:"eventType"`
	ThreadID  string `json:"threadId"`
	Topic     string `json:"topic"`
	Timestamp int64  `json:"timestamp"`
	Text      string `json:"text"`
}

// TranscriptFinal represents a finalized, vocabulary-corrected transcript
// update with its recognition confidence.
type TranscriptFinal struct {
	EventType  string  `json:"eventType"`
	ThreadID   string  `json:"threadId"`
	Topic      string  `json:"topic"`
	Timestamp  int64   `json:"timestamp"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
