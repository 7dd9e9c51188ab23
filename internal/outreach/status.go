// Package outreach drives the paced, one-profile-at-a-time invitation loop
// over the candidate queue.
package outreach

import "fmt"

// StatusKind identifies how a run ended.
type StatusKind string

const (
	StatusCompleted        StatusKind = "completed"
	StatusWeeklyLimit      StatusKind = "weekly_limit"
	StatusQueueExhausted   StatusKind = "queue_exhausted"
	StatusLoginFailed      StatusKind = "login_failed"
	StatusSessionError     StatusKind = "session_error"
	StatusInterrupted      StatusKind = "interrupted"
	StatusQueueUnavailable StatusKind = "queue_unavailable"
	StatusUnexpected       StatusKind = "unexpected"
)

// Status is the terminal result of a run.
type Status struct {
	Kind StatusKind `json:"kind"`
	Sent int        `json:"sent"`
}

// Message renders the short operator-facing status line.
func (s Status) Message() string {
	switch s.Kind {
	case StatusCompleted:
		return fmt.Sprintf("Completed: %d sent.", s.Sent)
	case StatusWeeklyLimit:
		return fmt.Sprintf("Weekly limit reached. %d sent.", s.Sent)
	case StatusQueueExhausted:
		return fmt.Sprintf("Queue exhausted: %d sent.", s.Sent)
	case StatusLoginFailed:
		return "Could not login. Possible Captcha."
	case StatusSessionError:
		return "Browser session error."
	case StatusInterrupted:
		return "Program stopped by the user."
	case StatusQueueUnavailable:
		return "Could not load candidate queue."
	}
	return "Unexpected error."
}

func (s Status) String() string {
	return s.Message()
}

// Success reports whether the run ended without a fault.
func (s Status) Success() bool {
	switch s.Kind {
	case StatusCompleted, StatusWeeklyLimit, StatusQueueExhausted:
		return true
	}
	return false
}
