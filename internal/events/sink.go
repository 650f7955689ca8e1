package events

import (
	"context"
	"sync"
	"time"

	"ai-interview-voice-client/internal/models"
)

// Event type discriminators carried in every published payload.
const (
	EventTypePartial = "interview.transcript.partial"
	EventTypeFinal   = "interview.transcript.final"
)

// TranscriptSink adapts the publisher to the transcript engine's sink
// surface. Events are keyed and stamped with the active interview session;
// updates arriving with no session bound are dropped.
type TranscriptSink struct {
	pub *Publisher

	mu       sync.Mutex
	threadID string
	topic    string
}

// NewTranscriptSink creates a sink publishing through pub.
func NewTranscriptSink(pub *Publisher) *TranscriptSink {
	return &TranscriptSink{pub: pub}
}

// Bind associates subsequent transcript updates with an interview session.
func (s *TranscriptSink) Bind(threadID, topic string) {
	s.mu.Lock()
	s.threadID = threadID
	s.topic = topic
	s.mu.Unlock()
}

// Unbind detaches the sink from the current session.
func (s *TranscriptSink) Unbind() {
	s.Bind("", "")
}

// Partial publishes an interim transcript update.
func (s *TranscriptSink) Partial(text string) {
	threadID, topic, ok := s.session()
	if !ok {
		return
	}
	event := models.TranscriptPartial{
		EventType: EventTypePartial,
		ThreadID:  threadID,
		Topic:     topic,
		Timestamp: time.Now().UnixMilli(),
		Text:      text,
	}
	_ = s.pub.PublishPartial(context.Background(), threadID, event)
}

// Final publishes a finalized transcript update.
func (s *TranscriptSink) Final(text string, confidence float64) {
	threadID, topic, ok := s.session()
	if !ok {
		return
	}
	event := models.TranscriptFinal{
		EventType:  EventTypeFinal,
		ThreadID:   threadID,
		Topic:      topic,
		Timestamp:  time.Now().UnixMilli(),
		Text:       text,
		Confidence: confidence,
	}
	_ = s.pub.PublishFinal(context.Background(), threadID, event)
}

func (s *TranscriptSink) session() (string, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID, s.topic, s.threadID != ""
}
