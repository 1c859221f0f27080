package conversion

import (
	"fmt"
	"strings"
)

// Status is the overall outcome of a conversion.
type Status int

const (
	StatusSuccess Status = iota
	StatusWithErrors
	StatusFail
)

var statusNames = map[Status]string{
	StatusSuccess:    "SUCCESS",
	StatusWithErrors: "WITH_ERRORS",
	StatusFail:       "FAIL",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText renders the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name.
func (s *Status) UnmarshalText(b []byte) error {
	name := strings.ToUpper(string(b))
	for k, v := range statusNames {
		if v == name {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(b))
}

// Result is the outcome of one conversion. Message is nil when nothing
// could be produced.
type Result[T any] struct {
	Status  Status `json:"status" msgpack:"status"`
	Message *T     `json:"message,omitempty" msgpack:"message,omitempty"`
	Issues  Issues `json:"issues,omitempty" msgpack:"issues,omitempty"`
}

// Fail builds a FAIL result without a message.
func Fail[T any](issues ...Issue) Result[T] {
	return Result[T]{Status: StatusFail, Issues: issues}
}

// Finish sets Status from the message and issues according to the policy
// in hints.
func (r *Result[T]) Finish(h Hints) {
	r.Status = h.StatusPolicy.Resolve(r.Message != nil, r.Issues, h.Mode)
}

// StatusPolicy decides the overall status from the conversion outcome.
type StatusPolicy int

const (
	// StatusByOutcome fails only when no message was produced. Any issue
	// on a produced message gives WITH_ERRORS.
	StatusByOutcome StatusPolicy = iota
	// StatusBySeverity additionally fails on SYNTAX and SYNTAX_ERROR
	// issues unless syntax errors are allowed.
	StatusBySeverity
)

// Resolve computes the status.
func (p StatusPolicy) Resolve(hasMessage bool, issues Issues, mode ParsingMode) Status {
	if !hasMessage {
		return StatusFail
	}
	if len(issues) == 0 {
		return StatusSuccess
	}
	if p == StatusBySeverity && mode == ModeStrict {
		if issues.Has(IssueSyntax) || issues.Has(IssueSyntaxError) {
			return StatusFail
		}
	}
	return StatusWithErrors
}

func (p StatusPolicy) String() string {
	if p == StatusBySeverity {
		return "severity"
	}
	return "outcome"
}

// ParseStatusPolicy accepts "outcome" and "severity".
func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "outcome":
		return StatusByOutcome, nil
	case "severity":
		return StatusBySeverity, nil
	}
	return StatusByOutcome, fmt.Errorf("unknown status policy %q", s)
}
