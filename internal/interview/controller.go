package interview

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"ai-interview-voice-client/internal/api"
	"ai-interview-voice-client/internal/observability/logging"
	"ai-interview-voice-client/internal/observability/metrics"
)

// Approval actions understood by the service.
const (
	ActionApprove      = "approve"
	ActionEndInterview = "end_interview"
)

// Locally classified errors; none of these reach the remote service.
var (
	ErrNoActiveSession   = errors.New("no active session, start a new interview")
	ErrEmptyAnswer       = errors.New("answer is empty, provide an answer before submitting")
	ErrOperationInFlight = errors.New("another operation is already in flight")
	ErrSessionInProgress = errors.New("an interview is already in progress")
)

// Service is the remote interview service surface the controller drives.
// *api.Client satisfies it; tests substitute a fake.
type Service interface {
	StartInterview(ctx context.Context, topic string, useMaterials bool) (*api.InterviewSession, error)
	GetQuestion(ctx context.Context, threadID string) (*api.Question, error)
	SubmitAnswer(ctx context.Context, threadID, transcript string) (*api.AnswerAck, error)
	ApproveAssessment(ctx context.Context, threadID, action string) (*api.ApprovalResult, error)
	GetAssessment(ctx context.Context, threadID string) (*api.AssessmentReport, error)
	EndSession(ctx context.Context, threadID string) error
}

// Question is the question currently posed to the user. Ordinal counts
// top-level questions only: a follow-up retains its parent's ordinal.
type Question struct {
	Text     string
	Ordinal  int
	FollowUp bool
}

// Snapshot is the externally visible state of the controller.
type Snapshot struct {
	Session   *api.InterviewSession
	Question  *Question
	Report    *api.AssessmentReport
	Status    Status
	Loading   bool
	LastError error
}

// Controller is the interview session state machine. Every failure path
// lands on a state the user can act from: a failed submission returns to
// questioning, a failed start returns to idle. Errors are a side-channel
// field, never a status value.
//
// One remote operation at a time: a second operation while one is in
// flight fails fast with ErrOperationInFlight and touches nothing.
type Controller struct {
	svc     Service
	metrics *metrics.Metrics
	log     zerolog.Logger

	mu       sync.Mutex
	session  *api.InterviewSession
	question *Question
	report   *api.AssessmentReport
	status   Status
	loading  bool
	lastErr  error
	inFlight bool
	subs     []func()
}

// NewController creates a controller driving the given service.
func NewController(svc Service) *Controller {
	return &Controller{
		svc:     svc,
		metrics: metrics.DefaultMetrics,
		log:     logging.WithComponent("interview-controller"),
		status:  StatusIdle,
	}
}

// Subscribe registers a callback invoked after every state change.
func (c *Controller) Subscribe(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Snapshot returns the current externally visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Session:   c.session,
		Report:    c.report,
		Status:    c.status,
		Loading:   c.loading,
		LastError: c.lastErr,
	}
	if c.question != nil {
		q := *c.question
		snap.Question = &q
	}
	return snap
}

// ClearError clears the user-facing error field.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
	c.notify()
}

// StartInterview creates a session on the given topic and fetches the first
// question. On failure the controller returns to idle with no session, so
// the user can retry from scratch.
func (c *Controller) StartInterview(ctx context.Context, topic string, useMaterials bool) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrOperationInFlight
	}
	if c.status != StatusIdle {
		c.mu.Unlock()
		return ErrSessionInProgress
	}
	c.inFlight = true
	c.loading = true
	c.lastErr = nil
	c.status = StatusStarting
	c.mu.Unlock()
	c.notify()

	session, err := c.svc.StartInterview(ctx, topic, useMaterials)
	var question *api.Question
	if err == nil {
		question, err = c.svc.GetQuestion(ctx, session.ThreadID)
	}

	c.mu.Lock()
	c.inFlight = false
	c.loading = false
	if err != nil {
		c.lastErr = err
		c.status = StatusIdle
		c.session = nil
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("topic", topic).Msg("Failed to start interview")
		c.notify()
		return err
	}
	c.session = session
	c.question = &Question{Text: question.Question, Ordinal: 1, FollowUp: question.IsFollowup}
	c.status = StatusQuestioning
	c.mu.Unlock()

	c.metrics.RecordInterviewStarted()
	sessionLog := logging.WithSession(session.ThreadID, session.Topic)
	sessionLog.Info().Msg("Interview started")
	c.notify()
	return nil
}

// SubmitAnswer submits a transcript for assessment, then best-effort fetches
// the next question; when that fetch fails the prior question is kept. On
// submission failure the controller returns to questioning so the user can
// retry with the same question.
func (c *Controller) SubmitAnswer(ctx context.Context, transcript string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrOperationInFlight
	}
	if c.session == nil {
		c.lastErr = ErrNoActiveSession
		c.mu.Unlock()
		c.notify()
		return ErrNoActiveSession
	}
	if strings.TrimSpace(transcript) == "" {
		c.lastErr = ErrEmptyAnswer
		c.mu.Unlock()
		c.notify()
		return ErrEmptyAnswer
	}
	threadID := c.session.ThreadID
	c.inFlight = true
	c.loading = true
	c.lastErr = nil
	c.status = StatusAssessing
	c.mu.Unlock()
	c.notify()

	_, err := c.svc.SubmitAnswer(ctx, threadID, transcript)

	var next *api.Question
	if err == nil {
		var qErr error
		next, qErr = c.svc.GetQuestion(ctx, threadID)
		if qErr != nil {
			// No more questions, or a transient fetch failure: keep the
			// prior question rather than stranding the session.
			c.log.Debug().Err(qErr).Str("threadId", threadID).Msg("No next question available")
			next = nil
		}
	}

	c.mu.Lock()
	c.inFlight = false
	c.loading = false
	c.status = StatusQuestioning
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("threadId", threadID).Msg("Failed to submit answer")
		c.notify()
		return err
	}
	if next != nil {
		c.question = c.adoptQuestion(next.Question, next.IsFollowup)
	}
	c.mu.Unlock()

	c.metrics.RecordAnswerSubmitted()
	c.notify()
	return nil
}

// ApproveAssessment resolves the service's approval step. A terminal action
// completes the interview; otherwise a returned next question is adopted.
// On failure only the error field changes.
func (c *Controller) ApproveAssessment(ctx context.Context, action string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrOperationInFlight
	}
	if c.session == nil {
		c.lastErr = ErrNoActiveSession
		c.mu.Unlock()
		c.notify()
		return ErrNoActiveSession
	}
	threadID := c.session.ThreadID
	c.inFlight = true
	c.loading = true
	c.lastErr = nil
	c.mu.Unlock()
	c.notify()

	result, err := c.svc.ApproveAssessment(ctx, threadID, action)

	c.mu.Lock()
	c.inFlight = false
	c.loading = false
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("threadId", threadID).Msg("Failed to process approval")
		c.notify()
		return err
	}
	completed := false
	switch {
	case action == ActionEndInterview:
		c.status = StatusComplete
		completed = true
	case result.NextQuestion != "":
		c.question = c.adoptQuestion(result.NextQuestion, result.HasFollowup)
		c.status = StatusQuestioning
	}
	c.mu.Unlock()

	if completed {
		c.metrics.RecordInterviewCompleted()
	}
	c.notify()
	return nil
}

// GetAssessment fetches the final report and completes the interview.
// On failure the status is left unchanged, not forced to complete.
func (c *Controller) GetAssessment(ctx context.Context) (*api.AssessmentReport, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrOperationInFlight
	}
	if c.session == nil {
		c.lastErr = ErrNoActiveSession
		c.mu.Unlock()
		c.notify()
		return nil, ErrNoActiveSession
	}
	threadID := c.session.ThreadID
	c.inFlight = true
	c.loading = true
	c.lastErr = nil
	c.mu.Unlock()
	c.notify()

	report, err := c.svc.GetAssessment(ctx, threadID)

	c.mu.Lock()
	c.inFlight = false
	c.loading = false
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("threadId", threadID).Msg("Failed to get assessment")
		c.notify()
		return nil, err
	}
	wasComplete := c.status == StatusComplete
	c.report = report
	c.status = StatusComplete
	c.mu.Unlock()

	if !wasComplete {
		c.metrics.RecordInterviewCompleted()
	}
	c.notify()
	return report, nil
}

// EndInterview deletes the remote session best-effort and clears all local
// state back to idle. Remote deletion failures are logged, never surfaced;
// ending an interview cannot fail visibly.
func (c *Controller) EndInterview(ctx context.Context) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session != nil {
		if err := c.svc.EndSession(ctx, session.ThreadID); err != nil {
			c.log.Error().Err(err).Str("threadId", session.ThreadID).Msg("Failed to delete remote session")
		}
	}

	c.mu.Lock()
	c.session = nil
	c.question = nil
	c.report = nil
	c.status = StatusIdle
	c.lastErr = nil
	c.loading = false
	c.mu.Unlock()
	c.notify()
}

// adoptQuestion builds the local question record for newly fetched text.
// The ordinal advances exactly once per top-level question and never for a
// follow-up, judged from the new question's own flag. Callers hold c.mu.
func (c *Controller) adoptQuestion(text string, followUp bool) *Question {
	ordinal := 1
	if c.question != nil {
		if followUp {
			ordinal = c.question.Ordinal
		} else {
			ordinal = c.question.Ordinal + 1
		}
	}
	return &Question{Text: text, Ordinal: ordinal, FollowUp: followUp}
}

// notify invokes subscribers outside the state lock.
func (c *Controller) notify() {
	c.mu.Lock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
