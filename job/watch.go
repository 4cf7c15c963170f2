package job

import (
	"context"
	"time"
)

// Poll scheduling defaults.
const (
	// DefaultPollInterval matches the 2s cadence the backend expects.
	DefaultPollInterval = 2 * time.Second

	// DefaultMaxPollDuration caps how long a job may stay non-terminal
	// before Watch gives up with ErrPollDeadline.
	DefaultMaxPollDuration = 10 * time.Minute
)

// WatchConfig configures a Watch loop.
type WatchConfig struct {
	// Interval between polls. The next poll is scheduled only after the
	// previous one completes, so responses for one record are strictly
	// ordered. Default: 2s
	Interval time.Duration

	// MaxDuration bounds the whole loop. Zero takes the default;
	// negative disables the cap entirely (a stuck backend job then
	// polls until the context is cancelled).
	MaxDuration time.Duration

	// OnStatus receives non-terminal progress messages as they arrive.
	OnStatus func(message string)

	// OnPoll fires after every status check, successful or not.
	OnPoll func()
}

// Watch polls the record at a fixed interval until it reaches a
// terminal state, the context is cancelled, or MaxDuration elapses.
// On cancellation the record is left Polling and ctx.Err() is returned;
// on deadline the record moves to Error and ErrPollDeadline is returned.
func (c *Client) Watch(ctx context.Context, rec *Record, cfg WatchConfig) error {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxDuration := cfg.MaxDuration
	if maxDuration == 0 {
		maxDuration = DefaultMaxPollDuration
	}

	var deadline <-chan time.Time
	if maxDuration > 0 {
		deadlineTimer := time.NewTimer(maxDuration)
		defer deadlineTimer.Stop()
		deadline = deadlineTimer.C
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-deadline:
			rec.Status = StatusError
			rec.ErrorMessage = "the job is still processing; gave up waiting"
			return ErrPollDeadline

		case <-timer.C:
			err := c.Poll(ctx, rec)
			if cfg.OnPoll != nil {
				cfg.OnPoll()
			}
			if err != nil {
				return err
			}
			if rec.Status == StatusDone {
				return nil
			}
			if cfg.OnStatus != nil && rec.StatusMessage != "" {
				cfg.OnStatus(rec.StatusMessage)
			}
			timer.Reset(interval)
		}
	}
}
