package interview

import (
	"context"
	"errors"
	"testing"

	"ai-interview-voice-client/internal/api"
)

// fakeService scripts remote responses and records calls.
type fakeService struct {
	startErr   error
	questions  []*api.Question
	questionAt int
	qErr       error
	submitErr  error
	approve    *api.ApprovalResult
	approveErr error
	report     *api.AssessmentReport
	reportErr  error
	endErr     error

	startCalls  int
	submitCalls int
	endCalls    int
	lastAction  string
}

func (f *fakeService) StartInterview(ctx context.Context, topic string, useMaterials bool) (*api.InterviewSession, error) {
	f.startCalls++
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &api.InterviewSession{ThreadID: "thread-1", Topic: topic, Status: "in_progress"}, nil
}

func (f *fakeService) GetQuestion(ctx context.Context, threadID string) (*api.Question, error) {
	if f.qErr != nil {
		return nil, f.qErr
	}
	if f.questionAt >= len(f.questions) {
		return nil, errors.New("no question queued")
	}
	q := f.questions[f.questionAt]
	f.questionAt++
	return q, nil
}

func (f *fakeService) SubmitAnswer(ctx context.Context, threadID, transcript string) (*api.AnswerAck, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &api.AnswerAck{ThreadID: threadID, Status: "assessed"}, nil
}

func (f *fakeService) ApproveAssessment(ctx context.Context, threadID, action string) (*api.ApprovalResult, error) {
	f.lastAction = action
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	if f.approve != nil {
		return f.approve, nil
	}
	return &api.ApprovalResult{Status: "ok"}, nil
}

func (f *fakeService) GetAssessment(ctx context.Context, threadID string) (*api.AssessmentReport, error) {
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return f.report, nil
}

func (f *fakeService) EndSession(ctx context.Context, threadID string) error {
	f.endCalls++
	return f.endErr
}

func startedController(t *testing.T, svc *fakeService) *Controller {
	t.Helper()
	c := NewController(svc)
	if err := c.StartInterview(context.Background(), "Go Concurrency", false); err != nil {
		t.Fatalf("starting interview: %v", err)
	}
	return c
}

func TestStartInterview_FirstQuestionOrdinalOne(t *testing.T) {
	svc := &fakeService{questions: []*api.Question{
		{Question: "Explain goroutines.", QuestionNumber: 1},
	}}
	c := startedController(t, svc)

	snap := c.Snapshot()
	if snap.Status != StatusQuestioning {
		t.Errorf("unexpected status %v", snap.Status)
	}
	if snap.Session == nil || snap.Session.ThreadID != "thread-1" {
		t.Errorf("unexpected session %+v", snap.Session)
	}
	if snap.Question == nil || snap.Question.Ordinal != 1 {
		t.Errorf("expected first question with ordinal 1, got %+v", snap.Question)
	}
	if snap.Question.Text != "Explain goroutines." {
		t.Errorf("unexpected question text %q", snap.Question.Text)
	}
}

func TestStartInterview_FailureReturnsToIdle(t *testing.T) {
	svc := &fakeService{startErr: errors.New("service down")}
	c := NewController(svc)

	err := c.StartInterview(context.Background(), "Go Concurrency", false)
	if err == nil {
		t.Fatal("expected error")
	}
	snap := c.Snapshot()
	if snap.Status != StatusIdle {
		t.Errorf("expected idle after failed start, got %v", snap.Status)
	}
	if snap.Session != nil {
		t.Error("expected no session after failed start")
	}
	if snap.LastError == nil {
		t.Error("expected last error to be set")
	}
}

func TestStartInterview_RejectedWhileActive(t *testing.T) {
	svc := &fakeService{questions: []*api.Question{
		{Question: "Explain goroutines."},
		{Question: "Explain channels."},
	}}
	c := startedController(t, svc)

	err := c.StartInterview(context.Background(), "Another Topic", false)
	if !errors.Is(err, ErrSessionInProgress) {
		t.Fatalf("expected ErrSessionInProgress, got %v", err)
	}
	if svc.startCalls != 1 {
		t.Errorf("expected no second remote start, got %d calls", svc.startCalls)
	}
}

func TestSubmitAnswer_FollowupKeepsOrdinal(t *testing.T) {
	svc := &fakeService{questions: []*api.Question{
		{Question: "Explain goroutines."},
		{Question: "How do goroutines differ from threads?", IsFollowup: true},
		{Question: "Explain channels."},
	}}
	c := startedController(t, svc)

	if err := c.SubmitAnswer(context.Background(), "They are lightweight."); err != nil {
		t.Fatalf("submitting answer: %v", err)
	}
	snap := c.Snapshot()
	if snap.Question.Ordinal != 1 || !snap.Question.FollowUp {
		t.Errorf("expected follow-up keeping ordinal 1, got %+v", snap.Question)
	}

	if err := c.SubmitAnswer(context.Background(), "Scheduled by the runtime."); err != nil {
		t.Fatalf("submitting answer: %v", err)
	}
	snap = c.Snapshot()
	if snap.Question.Ordinal != 2 || snap.Question.FollowUp {
		t.Errorf("expected next top-level question with ordinal 2, got %+v", snap.Question)
	}
	if snap.Status != StatusQuestioning {
		t.Errorf("unexpected status %v", snap.Status)
	}
}

func TestSubmitAnswer_FailureReturnsToQuestioning(t *testing.T) {
	svc := &fakeService{questions: []*api.Question{
		{Question: "Explain goroutines."},
	}}
	c := startedController(t, svc)
	svc.submitErr = errors.New("assessment timed out")

	err := c.SubmitAnswer(context.Background(), "An answer.")
	if err == nil {
		t.Fatal("expected error")
	}
	snap := c.Snapshot()
	if snap.Status != StatusQuestioning {
		t.Errorf("expected questioning after failed submit, got %v", snap.Status)
	}
	if snap.Question == nil || snap.Question.Text != "Explain goroutines." {
		t.Errorf("expected question unchanged, got %+v", snap.Question)
	}
	if snap.LastError == nil {
		t.Error("expected last error to be set")
	}
}

func TestSubmitAnswer_QuestionFetchFailureKeepsPrior(t *testing.T) {
	svc := &fakeService{questions: []*api.Question{
		{Question: "Explain goroutines."},
	}}
	c := startedController(t, svc)

	// Answer accepted, but no further question is available.
	if err := c.SubmitAnswer(context.Background(), "An answer."); err != nil {
		t.Fatalf("submitting answer: %v", err)
	}
	snap := c.Snapshot()
	if snap.Question == nil || snap.Question.Text != "Explain goroutines." {
		t.Errorf("expected prior question kept, got %+v", snap.Question)
	}
	if snap.LastError != nil {
		t.Errorf("expected no surfaced error, got %v", snap.LastError)
	}
}

func TestSubmitAnswer_EmptyAnswerNeverContactsService(t *testing.T) {
	svc := &fakeService{questions: []*api.Question{
		{Question: "Explain goroutines."},
	}}
	c := startedController(t, svc)

	for _, answer := range []string{"", "   ", "\n\t"} {
		err := c.SubmitAnswer(context.Background(), answer)
		if !errors.Is(err, ErrEmptyAnswer) {
			t.Errorf("answer %q: expected ErrEmptyAnswer, got %v", answer, err)
		}
	}
	if svc.submitCalls != 0 {
		t.Errorf("expected no remote submissions, got %d", svc.submitCalls)
	}
}

func TestSubmitAnswer_WithoutSessionFailsLocally(t *testing.T) {
	svc := &fakeService{}
	c := NewController(svc)

	err := c.SubmitAnswer(context.Background(), "An answer.")
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
	if svc.submitCalls != 0 {
		t.Error("expected no remote call without a session")
	}
}

func TestApproveAssessment_EndInterviewCompletes(t *testing.T) {
	svc := &fakeService{questions: []*api.Question{
		{Question: "Explain goroutines."},
	}}
	c := startedController(t, svc)

	if err := c.ApproveAssessment(context.Background(), ActionEndInterview); err != nil {
		t.Fatalf("approving: %v", err)
	}
	if svc.lastAction != "end_interview" {
		t.Errorf("unexpected action %q", svc.lastAction)
	}
	if got := c.Snapshot().Status; got != StatusComplete {
		t.Errorf("expected complete, got %v", got)
	}
}

func TestApproveAssessment_AdoptsNextQuestion(t *testing.T) {
	svc := &fakeService{
		questions: []*api.Question{{Question: "Explain goroutines."}},
		approve:   &api.ApprovalResult{NextQuestion: "Explain channels.", HasFollowup: false},
	}
	c := startedController(t, svc)

	if err := c.ApproveAssessment(context.Background(), ActionApprove); err != nil {
		t.Fatalf("approving: %v", err)
	}
	snap := c.Snapshot()
	if snap.Question.Text != "Explain channels." || snap.Question.Ordinal != 2 {
		t.Errorf("expected adopted question with ordinal 2, got %+v", snap.Question)
	}
	if snap.Status != StatusQuestioning {
		t.Errorf("unexpected status %v", snap.Status)
	}
}

func TestApproveAssessment_FailureLeavesStatus(t *testing.T) {
	svc := &fakeService{
		questions:  []*api.Question{{Question: "Explain goroutines."}},
		approveErr: errors.New("approval failed"),
	}
	c := startedController(t, svc)

	err := c.ApproveAssessment(context.Background(), ActionApprove)
	if err == nil {
		t.Fatal("expected error")
	}
	snap := c.Snapshot()
	if snap.Status != StatusQuestioning {
		t.Errorf("expected status unchanged, got %v", snap.Status)
	}
	if snap.LastError == nil {
		t.Error("expected last error to be set")
	}
}

func TestGetAssessment_StoresReportAndCompletes(t *testing.T) {
	svc := &fakeService{
		questions: []*api.Question{{Question: "Explain goroutines."}},
		report: &api.AssessmentReport{
			ThreadID:     "thread-1",
			OverallScore: 8,
			Summary:      "Strong fundamentals.",
		},
	}
	c := startedController(t, svc)

	report, err := c.GetAssessment(context.Background())
	if err != nil {
		t.Fatalf("getting assessment: %v", err)
	}
	if report.OverallScore != 8 {
		t.Errorf("unexpected score %d", report.OverallScore)
	}
	snap := c.Snapshot()
	if snap.Status != StatusComplete {
		t.Errorf("expected complete, got %v", snap.Status)
	}
	if snap.Report == nil || snap.Report.Summary != "Strong fundamentals." {
		t.Errorf("unexpected report %+v", snap.Report)
	}
}

func TestGetAssessment_FailureLeavesStatus(t *testing.T) {
	svc := &fakeService{
		questions: []*api.Question{{Question: "Explain goroutines."}},
		reportErr: errors.New("not ready"),
	}
	c := startedController(t, svc)

	if _, err := c.GetAssessment(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := c.Snapshot().Status; got != StatusQuestioning {
		t.Errorf("expected status unchanged, got %v", got)
	}
}

func TestEndInterview_ClearsStateEvenOnRemoteFailure(t *testing.T) {
	svc := &fakeService{
		questions: []*api.Question{{Question: "Explain goroutines."}},
		endErr:    errors.New("delete failed"),
	}
	c := startedController(t, svc)

	c.EndInterview(context.Background())

	if svc.endCalls != 1 {
		t.Errorf("expected one remote delete attempt, got %d", svc.endCalls)
	}
	snap := c.Snapshot()
	if snap.Status != StatusIdle {
		t.Errorf("expected idle, got %v", snap.Status)
	}
	if snap.Session != nil || snap.Question != nil || snap.Report != nil {
		t.Error("expected all session state cleared")
	}
	if snap.LastError != nil {
		t.Errorf("expected no surfaced error, got %v", snap.LastError)
	}
}

func TestEndInterview_WithoutSessionSkipsRemote(t *testing.T) {
	svc := &fakeService{}
	c := NewController(svc)

	c.EndInterview(context.Background())
	if svc.endCalls != 0 {
		t.Errorf("expected no remote delete, got %d", svc.endCalls)
	}
	if got := c.Snapshot().Status; got != StatusIdle {
		t.Errorf("expected idle, got %v", got)
	}
}

// blockingService parks SubmitAnswer until released, so a second operation
// can be attempted while the first is still in flight.
type blockingService struct {
	fakeService
	entered chan struct{}
	release chan struct{}
}

func (b *blockingService) SubmitAnswer(ctx context.Context, threadID, transcript string) (*api.AnswerAck, error) {
	close(b.entered)
	<-b.release
	return b.fakeService.SubmitAnswer(ctx, threadID, transcript)
}

func TestOperations_RejectedWhileInFlight(t *testing.T) {
	svc := &blockingService{
		fakeService: fakeService{questions: []*api.Question{
			{Question: "Explain goroutines."},
			{Question: "Explain channels."},
		}},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := NewController(svc)
	if err := c.StartInterview(context.Background(), "Go Concurrency", false); err != nil {
		t.Fatalf("starting interview: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- c.SubmitAnswer(context.Background(), "first answer") }()
	<-svc.entered

	if err := c.SubmitAnswer(context.Background(), "second answer"); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("expected ErrOperationInFlight from overlapping submit, got %v", err)
	}
	if _, err := c.GetAssessment(context.Background()); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("expected ErrOperationInFlight from overlapping assessment fetch, got %v", err)
	}
	if err := c.ApproveAssessment(context.Background(), ActionApprove); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("expected ErrOperationInFlight from overlapping approval, got %v", err)
	}

	close(svc.release)
	if err := <-done; err != nil {
		t.Fatalf("first operation should complete normally, got %v", err)
	}
	if svc.submitCalls != 1 {
		t.Errorf("expected exactly one remote submission, got %d", svc.submitCalls)
	}
	if got := c.Snapshot().Status; got != StatusQuestioning {
		t.Errorf("unexpected status %v", got)
	}
}

func TestSubscribe_NotifiedOnStateChange(t *testing.T) {
	svc := &fakeService{questions: []*api.Question{
		{Question: "Explain goroutines."},
	}}
	c := NewController(svc)

	notified := 0
	c.Subscribe(func() { notified++ })

	if err := c.StartInterview(context.Background(), "Go Concurrency", false); err != nil {
		t.Fatalf("starting interview: %v", err)
	}
	if notified == 0 {
		t.Error("expected subscriber notifications")
	}
}

func TestStatusOverlay(t *testing.T) {
	if got := StatusQuestioning.Overlay(true); got != StatusRecording {
		t.Errorf("expected recording overlay, got %v", got)
	}
	if got := StatusQuestioning.Overlay(false); got != StatusQuestioning {
		t.Errorf("expected questioning, got %v", got)
	}
	if got := StatusAssessing.Overlay(true); got != StatusAssessing {
		t.Errorf("expected assessing unchanged, got %v", got)
	}
	if got := StatusIdle.Overlay(true); got != StatusIdle {
		t.Errorf("expected idle unchanged, got %v", got)
	}
}
