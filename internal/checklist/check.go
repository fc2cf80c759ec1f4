package checklist

import (
	"context"
	"fmt"
	"time"
)

// Status represents the outcome of a single check.
type Status int

const (
	// StatusUnknown is the zero value: the check reported no status. It
	// counts as failed.
	StatusUnknown Status = iota
	// StatusPass indicates the check passed.
	StatusPass
	// StatusSkip indicates the check could not be evaluated here and
	// counts as passed.
	StatusSkip
	// StatusFail indicates the check failed.
	StatusFail
	// StatusCrash indicates the check panicked. It counts as failed.
	StatusCrash
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusSkip:
		return "SKIP"
	case StatusFail:
		return "FAIL"
	case StatusCrash:
		return "CRASH"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the status as its lower-case name.
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusPass:
		return []byte("pass"), nil
	case StatusSkip:
		return []byte("skip"), nil
	case StatusFail:
		return []byte("fail"), nil
	case StatusCrash:
		return []byte("crash"), nil
	case StatusUnknown:
		return []byte("unknown"), nil
	default:
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
}

// UnmarshalText decodes a lower-case status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pass":
		*s = StatusPass
	case "skip":
		*s = StatusSkip
	case "fail":
		*s = StatusFail
	case "crash":
		*s = StatusCrash
	case "unknown":
		*s = StatusUnknown
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Passed reports whether the status counts towards readiness.
func (s Status) Passed() bool {
	return s == StatusPass || s == StatusSkip
}

// Outcome is what a check function returns.
type Outcome struct {
	Status  Status
	Message string
	// Details lists the individual missing items, if any.
	Details []string
	// Code is an internal/errors code for non-passing outcomes.
	Code string
	// Err is the underlying error, logged but not rendered.
	Err error
}

// Result holds the result of a single check.
type Result struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Passed   bool          `json:"passed"`
	Message  string        `json:"message"`
	Details  []string      `json:"details,omitempty"`
	Code     string        `json:"code,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// CheckFunc evaluates one aspect of a project.
type CheckFunc func(ctx context.Context, p *Project) Outcome

// Check is a named, ordered readiness check.
type Check struct {
	// ID is the stable identifier used by --only and JSON output.
	ID string
	// Name is the display name used in the console report.
	Name string
	// Subject completes the "Testing ..." progress line.
	Subject string
	Run  CheckFunc
}

func pass(msg string) Outcome {
	return Outcome{Status: StatusPass, Message: msg}
}

func skip(code, msg string, err error) Outcome {
	return Outcome{Status: StatusSkip, Message: msg, Code: code, Err: err}
}

func fail(code, msg string, err error) Outcome {
	return Outcome{Status: StatusFail, Message: msg, Code: code, Err: err}
}

func failMissing(code, msg string, missing []string) Outcome {
	return Outcome{Status: StatusFail, Message: msg, Code: code, Details: missing}
}
