package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-interview-voice-client/internal/observability/logging"
	"ai-interview-voice-client/internal/observability/metrics"
)

// ErrUnsupportedFileType rejects material uploads before contacting the
// service; the backend only indexes pdf, txt and md files.
var ErrUnsupportedFileType = errors.New("unsupported file type (allowed: .pdf, .txt, .md)")

var allowedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// RequestError is a failed call to the interview service, carrying the
// service's detail message when the response body provided one.
type RequestError struct {
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	return e.Detail
}

// Client talks HTTP/JSON to the interview service.
//
// Requests carry no client-side timeout: calls are bounded only by the
// provided context, matching the service's long-running generation steps.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewClient creates a client for the service rooted at baseURL
// (e.g. "http://localhost:8000/api/v1").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logging.WithComponent("api-client"),
		metrics: metrics.DefaultMetrics,
	}
}

// StartInterview starts a new interview session on the given topic.
func (c *Client) StartInterview(ctx context.Context, topic string, useMaterials bool) (*InterviewSession, error) {
	var out InterviewSession
	req := StartInterviewRequest{Topic: topic, UseMaterials: useMaterials}
	if err := c.do(ctx, "start_interview", http.MethodPost, "/interview/start", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuestion fetches the current question for a session.
func (c *Client) GetQuestion(ctx context.Context, threadID string) (*Question, error) {
	var out Question
	q := url.Values{"thread_id": {threadID}}
	if err := c.do(ctx, "get_question", http.MethodGet, "/interview/question", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAnswer submits a transcript answer for assessment.
func (c *Client) SubmitAnswer(ctx context.Context, threadID, transcript string) (*AnswerAck, error) {
	var out AnswerAck
	req := SubmitAnswerRequest{ThreadID: threadID, Transcript: transcript}
	if err := c.do(ctx, "submit_answer", http.MethodPost, "/interview/answer", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveAssessment resolves the human-in-the-loop approval step.
func (c *Client) ApproveAssessment(ctx context.Context, threadID, action string) (*ApprovalResult, error) {
	var out ApprovalResult
	q := url.Values{"thread_id": {threadID}, "action": {action}}
	if err := c.do(ctx, "approve_assessment", http.MethodPost, "/interview/approve", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAssessment fetches the final performance report.
func (c *Client) GetAssessment(ctx context.Context, threadID string) (*AssessmentReport, error) {
	var out AssessmentReport
	q := url.Values{"thread_id": {threadID}}
	if err := c.do(ctx, "get_assessment", http.MethodGet, "/interview/assessment", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndSession deletes the remote session record.
func (c *Client) EndSession(ctx context.Context, threadID string) error {
	return c.do(ctx, "end_session", http.MethodDelete, "/interview/"+url.PathEscape(threadID), nil, nil, nil)
}

// ListMaterials enumerates uploaded study materials.
func (c *Client) ListMaterials(ctx context.Context) (*MaterialList, error) {
	var out MaterialList
	if err := c.do(ctx, "list_materials", http.MethodGet, "/materials/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadMaterial uploads a study document for indexing. The file type is
// checked locally before any bytes are sent.
func (c *Client) UploadMaterial(ctx context.Context, filename string, content io.Reader) (*MaterialUpload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedFileType
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/materials/upload", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var out MaterialUpload
	if err := c.roundTrip("upload_material", httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one JSON request against the service.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return c.roundTrip(operation, httpReq, out)
}

// roundTrip executes the request, applies the error convention and decodes
// the response body into out when provided.
func (c *Client) roundTrip(operation string, req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.RecordAPIRequest(operation, err, time.Since(start).Seconds())
	if err != nil {
		c.log.Warn().Err(err).Str("operation", operation).Msg("Interview service request failed")
		return fmt.Errorf("interview service unreachable: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("operation", operation).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Interview service request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("request failed: %d", resp.StatusCode),
		}
		var body ErrorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil && body.Detail != "" {
			reqErr.Detail = body.Detail
		}
		c.metrics.APIRequestErrors.WithLabelValues(operation).Inc()
		return reqErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", operation, err)
	}
	return nil
}
