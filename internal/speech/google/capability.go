// Package google provides a recognition capability backed by Google Cloud
// Speech-to-Text streaming recognition.
package google

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	gspeech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ai-interview-voice-client/internal/observability/logging"
	"ai-interview-voice-client/internal/speech"
)

// Audio is pumped to the engine in chunks to simulate real-time capture.
// At 16-bit mono, one chunk covers chunkIntervalMs of audio.
const chunkIntervalMs = 100

// Config holds streaming recognition settings.
type Config struct {
	LanguageCode   string
	SampleRateHz   int
	InterimResults bool

	// AudioSource supplies raw LINEAR16 PCM audio (a capture pipe or file).
	AudioSource io.Reader
}

var errSessionActive = errors.New("google capability: session already active")

// Capability implements speech.Capability using Google Cloud Speech-to-Text.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
type Capability struct {
	client *gspeech.Client
	cfg    Config
	log    zerolog.Logger

	mu     sync.Mutex
	hints  []string
	stream speechpb.Speech_StreamingRecognizeClient
	cancel context.CancelFunc
	active bool
}

// New creates a new Google recognition capability.
func New(ctx context.Context, cfg Config) (*Capability, error) {
	c, err := gspeech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.SampleRateHz == 0 {
		cfg.SampleRateHz = 16000
	}
	return &Capability{
		client: c,
		cfg:    cfg,
		log:    logging.WithRecognition("google"),
	}, nil
}

// SetPhraseHints supplies vocabulary hints via SpeechContext phrases.
// Takes effect on the next Start.
func (c *Capability) SetPhraseHints(phrases []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hints = phrases
}

// Start begins a streaming recognition session and sends the initial config.
func (c *Capability) Start(ctx context.Context, l speech.Listener) error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return errSessionActive
	}

	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := c.client.StreamingRecognize(streamCtx)
	if err != nil {
		cancel()
		c.mu.Unlock()
		return err
	}

	var contexts []*speechpb.SpeechContext
	if len(c.hints) > 0 {
		contexts = []*speechpb.SpeechContext{{Phrases: c.hints}}
	}

	// Send streaming config as the first message
	err = stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz: int32(c.cfg.SampleRateHz),
					LanguageCode:    c.cfg.LanguageCode,
					SpeechContexts:  contexts,
				},
				InterimResults: c.cfg.InterimResults,
			},
		},
	})
	if err != nil {
		cancel()
		c.mu.Unlock()
		return err
	}

	c.stream = stream
	c.cancel = cancel
	c.active = true
	c.mu.Unlock()

	go c.pumpAudio(stream)
	go c.listen(stream, l)
	return nil
}

// Stop requests termination of the current session. Idempotent.
func (c *Capability) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return nil
	}
	c.active = false
	return c.stream.CloseSend()
}

// pumpAudio streams chunks from the audio source to the engine.
func (c *Capability) pumpAudio(stream speechpb.Speech_StreamingRecognizeClient) {
	if c.cfg.AudioSource == nil {
		return
	}

	chunkSize := c.cfg.SampleRateHz * 2 * chunkIntervalMs / 1000
	buf := make([]byte, chunkSize)
	ticker := time.NewTicker(chunkIntervalMs * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		n, err := c.cfg.AudioSource.Read(buf)
		if n > 0 {
			sendErr := stream.Send(&speechpb.StreamingRecognizeRequest{
				StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
					AudioContent: buf[:n],
				},
			})
			if sendErr != nil {
				return
			}
		}
		if err != nil {
			// Source exhausted: half-close so pending results still arrive.
			_ = c.Stop()
			return
		}
	}
}

// listen receives responses from the engine and forwards them as events.
// All listener notifications, the start confirmation included, are delivered
// from this goroutine, never synchronously from Start or Stop.
func (c *Capability) listen(stream speechpb.Speech_StreamingRecognizeClient, l speech.Listener) {
	defer func() {
		c.mu.Lock()
		c.active = false
		cancel := c.cancel
		c.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		l.OnEnd()
	}()

	l.OnStart()

	for {
		resp, err := stream.Recv()
		if err != nil {
			if reason, detail, ok := classify(err); ok {
				l.OnError(reason, detail)
			}
			return
		}

		results := make([]speech.Result, 0, len(resp.Results))
		for _, r := range resp.Results {
			if len(r.Alternatives) == 0 {
				continue
			}
			alt := r.Alternatives[0]
			results = append(results, speech.Result{
				Text:       alt.Transcript,
				Final:      r.IsFinal,
				Confidence: float64(alt.Confidence),
			})
		}
		if len(results) > 0 {
			l.OnResult(results)
		}
	}
}

// classify maps stream errors onto the capability error vocabulary.
// A false return means the error is a normal end of stream, not an event.
func classify(err error) (speech.ErrorReason, string, bool) {
	if errors.Is(err, io.EOF) {
		return 0, "", false
	}
	if errors.Is(err, context.Canceled) {
		return speech.ReasonAborted, err.Error(), true
	}
	switch status.Code(err) {
	case codes.Canceled, codes.Aborted:
		return speech.ReasonAborted, err.Error(), true
	case codes.PermissionDenied, codes.Unauthenticated:
		return speech.ReasonPermissionDenied, err.Error(), true
	default:
		return speech.ReasonOther, err.Error(), true
	}
}
