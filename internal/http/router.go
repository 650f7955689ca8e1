// Package http hosts a self-contained stand-in for the remote interview
// service, used for local development and demos without a real backend.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"ai-interview-voice-client/internal/api"
)

// cannedQuestions is the scripted interview: three top-level questions, the
// first with one follow-up.
var cannedQuestions = []api.Question{
	{Question: "Walk me through how you would design a rate limiter for a public API.", QuestionNumber: 1},
	{Question: "What trade-offs would you consider between a token bucket and a sliding window?", QuestionNumber: 1, IsFollowup: true},
	{Question: "How would you monitor such a system in production?", QuestionNumber: 2},
	{Question: "Describe a production incident you debugged and what you learned.", QuestionNumber: 3},
}

type session struct {
	topic         string
	questionIndex int
	answers       []string
}

// Server is an in-memory interview service.
type Server struct {
	mu        sync.Mutex
	sessions  map[string]*session
	materials []api.MaterialInfo
}

// NewServer creates an empty in-memory interview service.
func NewServer() *Server {
	return &Server{sessions: make(map[string]*session)}
}

// NewRouter constructs the HTTP router for the mock interview service.
func NewRouter(srv *Server) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/interview/start", srv.startInterview)
		r.Get("/interview/question", srv.getQuestion)
		r.Post("/interview/answer", srv.submitAnswer)
		r.Post("/interview/approve", srv.approveAssessment)
		r.Get("/interview/assessment", srv.getAssessment)
		r.Delete("/interview/{threadID}", srv.endSession)
		r.Get("/materials/list", srv.listMaterials)
		r.Post("/materials/upload", srv.uploadMaterial)
	})

	return r
}

func (s *Server) startInterview(w http.ResponseWriter, r *http.Request) {
	var req api.StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	s.mu.Lock()
	s.sessions[threadID] = &session{topic: req.Topic}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.InterviewSession{
		ThreadID: threadID,
		Topic:    req.Topic,
		Status:   "in_progress",
		Message:  "Interview started",
	})
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("thread_id")

	s.mu.Lock()
	sess, ok := s.sessions[threadID]
	var q api.Question
	if ok && sess.questionIndex < len(cannedQuestions) {
		q = cannedQuestions[sess.questionIndex]
		q.ThreadID = threadID
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Session %s not found", threadID))
		return
	}
	if q.Question == "" {
		writeError(w, http.StatusNotFound, "No more questions for this session")
		return
	}
	q.Status = "questioning"
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req api.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeError(w, http.StatusBadRequest, "transcript is required")
		return
	}

	s.mu.Lock()
	sess, ok := s.sessions[req.ThreadID]
	hasFollowup := false
	if ok {
		sess.answers = append(sess.answers, req.Transcript)
		sess.questionIndex++
		if sess.questionIndex < len(cannedQuestions) {
			hasFollowup = cannedQuestions[sess.questionIndex].IsFollowup
		}
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Session %s not found", req.ThreadID))
		return
	}
	writeJSON(w, http.StatusOK, api.AnswerAck{
		ThreadID:    req.ThreadID,
		Status:      "assessed",
		Message:     "Answer recorded",
		HasFollowup: hasFollowup,
	})
}

func (s *Server) approveAssessment(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("thread_id")
	action := r.URL.Query().Get("action")

	s.mu.Lock()
	sess, ok := s.sessions[threadID]
	var result api.ApprovalResult
	if ok {
		if action == "end_interview" {
			result = api.ApprovalResult{Status: "completed", Message: "Interview ended"}
		} else if sess.questionIndex < len(cannedQuestions) {
			next := cannedQuestions[sess.questionIndex]
			result = api.ApprovalResult{
				NextQuestion: next.Question,
				HasFollowup:  next.IsFollowup,
				Status:       "questioning",
			}
		} else {
			result = api.ApprovalResult{Status: "completed", Message: "All questions asked"}
		}
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Session %s not found", threadID))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("thread_id")

	s.mu.Lock()
	sess, ok := s.sessions[threadID]
	var answered int
	var topic string
	if ok {
		answered = len(sess.answers)
		topic = sess.topic
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Session %s not found", threadID))
		return
	}
	if answered == 0 {
		writeError(w, http.StatusBadRequest, "No answers submitted yet")
		return
	}

	writeJSON(w, http.StatusOK, api.AssessmentReport{
		ThreadID:       threadID,
		Topic:          topic,
		OverallScore:   7,
		TotalQuestions: answered,
		Summary:        "Solid answers with room for more depth on monitoring.",
		Strengths:      []string{"Clear structure", "Good use of concrete examples"},
		Weaknesses:     []string{"Limited discussion of failure modes"},
		Recommendations: []string{
			"Practice walking through observability trade-offs",
		},
	})
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	s.mu.Lock()
	_, ok := s.sessions[threadID]
	delete(s.sessions, threadID)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Session %s not found", threadID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

func (s *Server) listMaterials(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	materials := make([]api.MaterialInfo, len(s.materials))
	copy(materials, s.materials)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.MaterialList{Materials: materials, Count: len(materials)})
}

func (s *Server) uploadMaterial(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	size, err := io.Copy(io.Discard, file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	material := api.MaterialInfo{
		MaterialID: uuid.NewString(),
		Filename:   header.Filename,
		Type:       strings.TrimPrefix(filepath.Ext(header.Filename), "."),
	}
	s.mu.Lock()
	s.materials = append(s.materials, material)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.MaterialUpload{
		MaterialID:    material.MaterialID,
		Filename:      material.Filename,
		ChunksCreated: int(size/1000) + 1,
		Message:       "Material indexed",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, api.ErrorBody{Detail: detail})
}
