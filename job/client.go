package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Defaults applied by NewClient.
const (
	DefaultSubmitPath   = "/jobs"
	DefaultFollowUpPath = "/jobs/followup"
	DefaultStatusPath   = "/jobs/status"
	DefaultHTTPTimeout  = 30 * time.Second
)

// maxErrorBody bounds how much raw response body is surfaced to users
// when no structured message can be extracted.
const maxErrorBody = 800

// genericErrorMessage is the last-resort display string.
const genericErrorMessage = "the server reported an unexpected error"

// Config configures a Client.
type Config struct {
	// BaseURL is the job service root, e.g. "https://api.example.com".
	BaseURL string

	// SubmitPath receives new submissions. Default: "/jobs"
	SubmitPath string

	// FollowUpPath receives submissions carrying a thread id.
	// Default: "/jobs/followup"
	FollowUpPath string

	// StatusPath answers status checks for a job id passed as the
	// "taskId" query parameter ("jobId" on older deployments).
	// Default: "/jobs/status"
	StatusPath string

	// HTTPClient is the transport for all calls. Default: a client with
	// a 30s timeout. Wrap its transport with ServiceTokenTransport to
	// authenticate against the backend.
	HTTPClient *http.Client
}

// Client talks to the backend job service.
//
// Contract:
// - Concurrency: safe for concurrent use; each Record must only be
//   polled from one goroutine at a time.
// - Context: Submit and Poll honor cancellation/deadlines.
// - Errors: returned errors are *TransportError, *ServerError,
//   *JobFailedError, or ErrNoJobID.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a client with defaults applied.
func NewClient(cfg Config) *Client {
	if cfg.SubmitPath == "" {
		cfg.SubmitPath = DefaultSubmitPath
	}
	if cfg.FollowUpPath == "" {
		cfg.FollowUpPath = DefaultFollowUpPath
	}
	if cfg.StatusPath == "" {
		cfg.StatusPath = DefaultStatusPath
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	return &Client{cfg: cfg, http: cfg.HTTPClient}
}

type submitRequest struct {
	Scope    string   `json:"scope"`
	Inputs   []string `json:"inputs"`
	ThreadID string   `json:"thread_id,omitempty"`
}

type submitResponse struct {
	JobID    string `json:"job_id"`
	ThreadID string `json:"thread_id,omitempty"`
}

// Submit starts a generation job for (scope, inputs). A non-empty
// threadID targets the follow-up endpoint so the backend reuses prior
// conversation context. The returned record is already Polling; the
// thread id is the server's if it assigned one, else the one passed in.
func (c *Client) Submit(ctx context.Context, scope string, inputs []string, threadID string) (*Record, error) {
	path := c.cfg.SubmitPath
	if threadID != "" {
		path = c.cfg.FollowUpPath
	}

	body, err := json.Marshal(submitRequest{Scope: scope, Inputs: inputs, ThreadID: threadID})
	if err != nil {
		return nil, fmt.Errorf("job: encode submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("job: build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "submit", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: extractMessage(raw)}
	}

	var sr submitResponse
	if err := json.Unmarshal(raw, &sr); err != nil || sr.JobID == "" {
		return nil, ErrNoJobID
	}

	rec := &Record{
		JobID:    sr.JobID,
		ThreadID: threadID,
		Status:   StatusPolling,
	}
	if sr.ThreadID != "" {
		rec.ThreadID = sr.ThreadID
	}
	return rec, nil
}

type statusResponse struct {
	Status        string          `json:"status"`
	Result        json.RawMessage `json:"result,omitempty"`
	StatusMessage string          `json:"status_message,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// Poll checks the job's status once and applies the transition. A
// terminal record is left untouched with no network call. Any transport
// or server failure is itself terminal: the record moves to Error and
// the typed error is returned.
func (c *Client) Poll(ctx context.Context, rec *Record) error {
	if rec.Terminal() {
		return nil
	}
	rec.Status = StatusPolling

	resp, err := c.checkStatus(ctx, rec.JobID, "taskId")
	if err != nil {
		rec.Status = StatusError
		rec.ErrorMessage = err.Error()
		return err
	}

	// Older deployments only accept the jobId parameter.
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity {
		resp.Body.Close()
		resp, err = c.checkStatus(ctx, rec.JobID, "jobId")
		if err != nil {
			rec.Status = StatusError
			rec.ErrorMessage = err.Error()
			return err
		}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverErr := &ServerError{StatusCode: resp.StatusCode, Message: extractMessage(raw)}
		rec.Status = StatusError
		rec.ErrorMessage = serverErr.Message
		return serverErr
	}

	var sr statusResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		serverErr := &ServerError{StatusCode: resp.StatusCode, Message: extractMessage(raw)}
		rec.Status = StatusError
		rec.ErrorMessage = serverErr.Message
		return serverErr
	}

	switch sr.Status {
	case "done":
		rec.Status = StatusDone
		rec.Result = sr.Result
		rec.StatusMessage = ""
	case "error":
		msg := sr.Error
		if msg == "" {
			msg = sr.StatusMessage
		}
		if msg == "" {
			msg = genericErrorMessage
		}
		rec.Status = StatusError
		rec.ErrorMessage = msg
		return &JobFailedError{Message: msg}
	default:
		// Still in flight. Surface progress without a state change.
		if sr.StatusMessage != "" {
			rec.StatusMessage = sr.StatusMessage
		}
	}
	return nil
}

func (c *Client) checkStatus(ctx context.Context, jobID, param string) (*http.Response, error) {
	u := fmt.Sprintf("%s%s?%s=%s", c.cfg.BaseURL, c.cfg.StatusPath, param, url.QueryEscape(jobID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("job: build status request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "poll", Err: err}
	}
	return resp, nil
}

// extractMessage pulls a display message out of an error response body.
// Known JSON fields win in priority order, then the raw body truncated
// to a bounded length, then a generic fallback.
func extractMessage(body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"detail", "error", "status_message", "message"} {
			if v, ok := fields[key].(string); ok && strings.TrimSpace(v) != "" {
				return v
			}
		}
	}

	text := strings.TrimSpace(string(body))
	if text != "" {
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return text
	}
	return genericErrorMessage
}
