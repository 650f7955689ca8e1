// Package mock provides a mock recognition capability for running the client
// without a microphone or cloud credentials. It simulates realistic engine
// behavior: progressive interim hypotheses, exactly one final result per
// utterance, and asynchronous start/end notifications.
package mock

import (
	"context"
	"errors"
	"sync"
	"time"

	"ai-interview-voice-client/internal/speech"
)

// SimulatedUtterance represents a scripted utterance with progressive results.
type SimulatedUtterance struct {
	Partials   []string // Progressive interim hypotheses
	Final      string   // Final result text
	Confidence float64  // Confidence score for the final result
}

// DefaultUtterances provides sample interview answers for simulation.
var DefaultUtterances = []SimulatedUtterance{
	{
		Partials:   []string{"I would use", "I would use lang chain", "I would use lang chain to build"},
		Final:      "I would use lang chain to build the retrieval pipeline",
		Confidence: 0.93,
	},
	{
		Partials:   []string{"A BFS", "A BFS explores level"},
		Final:      "A BFS explores level by level",
		Confidence: 0.96,
	},
	{
		Partials:   []string{"We stored embeddings", "We stored embeddings in chroma db"},
		Final:      "We stored embeddings in chroma db for similarity search",
		Confidence: 0.9,
	},
	{
		Partials:   []string{"The fast api", "The fast api service exposes"},
		Final:      "The fast api service exposes the rag endpoints",
		Confidence: 0.88,
	},
}

var errAlreadyStarted = errors.New("mock capability: session already started")

// Capability implements speech.Capability with scripted responses.
// Each session cycles through the configured utterances, emitting interim
// results on a timer until Stop is called.
type Capability struct {
	mu         sync.Mutex
	utterances []SimulatedUtterance
	interval   time.Duration
	listener   speech.Listener
	active     bool
	cancel     chan struct{}
}

// Option configures a mock Capability.
type Option func(*Capability)

// WithUtterances replaces the default utterance script.
func WithUtterances(utterances []SimulatedUtterance) Option {
	return func(c *Capability) { c.utterances = utterances }
}

// WithInterval sets the delay between emitted results.
func WithInterval(d time.Duration) Option {
	return func(c *Capability) { c.interval = d }
}

// New creates a new mock recognition capability.
func New(opts ...Option) *Capability {
	c := &Capability{
		utterances: DefaultUtterances,
		interval:   400 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a scripted recognition session.
func (c *Capability) Start(ctx context.Context, l speech.Listener) error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return errAlreadyStarted
	}
	c.active = true
	c.listener = l
	c.cancel = make(chan struct{})
	cancel := c.cancel
	c.mu.Unlock()

	go c.run(ctx, l, cancel)
	return nil
}

// Stop requests termination of the current session. Idempotent.
func (c *Capability) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return nil
	}
	close(c.cancel)
	c.active = false
	return nil
}

// run drives the scripted session until cancelled.
func (c *Capability) run(ctx context.Context, l speech.Listener, cancel chan struct{}) {
	l.OnStart()
	defer func() {
		c.mu.Lock()
		c.active = false
		c.mu.Unlock()
		l.OnEnd()
	}()

	for i := 0; ; i++ {
		utt := c.utterances[i%len(c.utterances)]
		for _, partial := range utt.Partials {
			if !c.sleep(ctx, cancel) {
				return
			}
			l.OnResult([]speech.Result{{Text: partial}})
		}
		if !c.sleep(ctx, cancel) {
			return
		}
		l.OnResult([]speech.Result{{Text: utt.Final, Final: true, Confidence: utt.Confidence}})
	}
}

// sleep waits one interval, returning false if the session was cancelled.
func (c *Capability) sleep(ctx context.Context, cancel chan struct{}) bool {
	select {
	case <-cancel:
		return false
	case <-ctx.Done():
		return false
	case <-time.After(c.interval):
		return true
	}
}
