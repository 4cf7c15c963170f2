package job

import (
	"errors"
	"fmt"
)

// Sentinel errors for job operations.
var (
	// ErrNoJobID is returned when a submit response carries no job id.
	ErrNoJobID = errors.New("job: server response missing job id")

	// ErrPollDeadline is returned when a job stays non-terminal past the
	// configured maximum poll duration.
	ErrPollDeadline = errors.New("job: poll deadline exceeded")
)

// TransportError reports a network failure reaching the backend. A
// failed submit is never auto-retried; a failed poll ends the job.
type TransportError struct {
	Op  string // "submit" or "poll"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("job: %s transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError reports a non-2xx response. Message holds the best-effort
// extracted server message.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("job: server returned %d: %s", e.StatusCode, e.Message)
}

// JobFailedError reports a backend-side generation failure: the HTTP
// exchange succeeded but the job ended with status "error". The error
// string is the server-supplied message verbatim, for direct display.
type JobFailedError struct {
	Message string
}

func (e *JobFailedError) Error() string { return e.Message }
