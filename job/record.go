package job

import "encoding/json"

// Status is a job's lifecycle state. Done and Error are terminal.
type Status int

const (
	StatusCreated Status = iota
	StatusPolling
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusPolling:
		return "polling"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further polling can change the status.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Record tracks one submitted job. The job id is assigned by the server
// and never reused; the thread id may be carried forward across jobs in
// the same conversation.
type Record struct {
	JobID    string
	ThreadID string
	Status   Status

	// Result holds the generation payload once Status is Done.
	Result json.RawMessage

	// StatusMessage is the latest non-terminal progress message, for
	// display while polling.
	StatusMessage string

	// ErrorMessage is set when Status is Error.
	ErrorMessage string
}

// Terminal reports whether the record reached Done or Error.
func (r *Record) Terminal() bool {
	return r.Status.Terminal()
}
