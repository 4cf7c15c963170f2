package orchestrate

import "errors"

// Sentinel errors for resolve operations.
var (
	// ErrInFlight is returned when a resolve for this orchestrator is
	// already running and no singleflight group is configured.
	ErrInFlight = errors.New("orchestrate: a generation is already in flight")

	// ErrEmptyResult is returned when a job completes without a
	// decodable result payload.
	ErrEmptyResult = errors.New("orchestrate: job completed with no result")

	// ErrNoClient is returned by New when no job client is supplied.
	ErrNoClient = errors.New("orchestrate: job client is required")

	// ErrNoScope is returned by New when the scope is empty.
	ErrNoScope = errors.New("orchestrate: scope is required")
)
