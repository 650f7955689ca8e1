// Package api is the HTTP/JSON transport for the remote interview service.
package api

// StartInterviewRequest starts a new interview session.
type StartInterviewRequest struct {
	Topic        string `json:"topic"`
	ThreadID     string `json:"thread_id,omitempty"`
	UseMaterials bool   `json:"use_materials"`
}

// InterviewSession is the service's record of a started session. ThreadID is
// an opaque identifier correlating all calls of one interview conversation.
type InterviewSession struct {
	ThreadID string `json:"thread_id"`
	Topic    string `json:"topic"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// Question is the current interview question.
type Question struct {
	ThreadID       string `json:"thread_id"`
	Question       string `json:"question"`
	QuestionNumber int    `json:"question_number"`
	IsFollowup     bool   `json:"is_followup"`
	Status         string `json:"status"`
}

// SubmitAnswerRequest submits a voice transcript answer.
type SubmitAnswerRequest struct {
	ThreadID   string `json:"thread_id"`
	Transcript string `json:"transcript"`
}

// AnswerAck acknowledges a submitted answer.
type AnswerAck struct {
	ThreadID    string `json:"thread_id"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	HasFollowup bool   `json:"has_followup"`
}

// ApprovalResult is the outcome of an approval action. NextQuestion is empty
// when the service has nothing further to ask.
type ApprovalResult struct {
	NextQuestion string `json:"next_question,omitempty"`
	HasFollowup  bool   `json:"has_followup"`
	Status       string `json:"status,omitempty"`
	Message      string `json:"message,omitempty"`
}

// AnswerAssessment is the assessment of a single answer.
type AnswerAssessment struct {
	Score            int      `json:"score"`
	Feedback         string   `json:"feedback"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	NeedsFollowup    bool     `json:"needs_followup"`
	FollowupQuestion string   `json:"followup_question,omitempty"`
}

// AssessmentReport is the final interview performance report.
type AssessmentReport struct {
	ThreadID        string             `json:"thread_id"`
	Topic           string             `json:"topic"`
	OverallScore    int                `json:"overall_score"`
	TotalQuestions  int                `json:"total_questions"`
	Summary         string             `json:"summary"`
	Strengths       []string           `json:"strengths"`
	Weaknesses      []string           `json:"weaknesses"`
	Recommendations []string           `json:"recommendations"`
	Assessments     []AnswerAssessment `json:"assessments,omitempty"`
}

// MaterialUpload is the result of uploading study materials.
type MaterialUpload struct {
	MaterialID    string `json:"material_id"`
	Filename      string `json:"filename"`
	ChunksCreated int    `json:"chunks_created"`
	Message       string `json:"message"`
}

// MaterialInfo describes one indexed material.
type MaterialInfo struct {
	MaterialID string `json:"material_id"`
	Filename   string `json:"filename"`
	Type       string `json:"type"`
}

// MaterialList enumerates indexed materials.
type MaterialList struct {
	Materials []MaterialInfo `json:"materials"`
	Count     int            `json:"count"`
}

// ErrorBody is the service's error response convention.
type ErrorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}
