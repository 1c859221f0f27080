// Package conversion holds the types shared by every conversion: issues,
// results, status policies and per-call hints.
package conversion

import (
	"fmt"
	"strings"
)

// IssueType classifies a problem found while converting a message.
type IssueType int

const (
	// IssueSyntax is a token ordering or grammar violation.
	IssueSyntax IssueType = iota
	// IssueSyntaxError is a recognised token whose value failed validation.
	IssueSyntaxError
	// IssueLogical is a semantic contradiction between otherwise valid tokens.
	IssueLogical
	// IssueMissingData is a mandatory element that was not found.
	IssueMissingData
	// IssueOther covers everything else.
	IssueOther
)

var issueTypeNames = map[IssueType]string{
	IssueSyntax:      "SYNTAX",
	IssueSyntaxError: "SYNTAX_ERROR",
	IssueLogical:     "LOGICAL",
	IssueMissingData: "MISSING_DATA",
	IssueOther:       "OTHER",
}

func (t IssueType) String() string {
	if name, ok := issueTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("IssueType(%d)", int(t))
}

// MarshalText renders the issue type by name in JSON and msgpack output.
func (t IssueType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses an issue type name.
func (t *IssueType) UnmarshalText(b []byte) error {
	name := strings.ToUpper(string(b))
	for k, v := range issueTypeNames {
		if v == name {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown issue type %q", string(b))
}

// Issue is a single problem found during conversion.
type Issue struct {
	Type    IssueType `json:"type" msgpack:"type"`
	Message string    `json:"message" msgpack:"message"`
}

// NewIssue builds an issue with a formatted message.
func NewIssue(t IssueType, format string, args ...any) Issue {
	return Issue{Type: t, Message: fmt.Sprintf(format, args...)}
}

func (i Issue) String() string {
	return i.Type.String() + ": " + i.Message
}

// Issues is an ordered issue list.
type Issues []Issue

// Add appends a formatted issue.
func (is *Issues) Add(t IssueType, format string, args ...any) {
	*is = append(*is, NewIssue(t, format, args...))
}

// Append appends already built issues.
func (is *Issues) Append(more ...Issue) {
	*is = append(*is, more...)
}

// Has reports whether any issue of type t is present.
func (is Issues) Has(t IssueType) bool {
	for _, i := range is {
		if i.Type == t {
			return true
		}
	}
	return false
}

// Count returns the number of issues of type t.
func (is Issues) Count(t IssueType) int {
	n := 0
	for _, i := range is {
		if i.Type == t {
			n++
		}
	}
	return n
}

// Prefixed returns a copy of the issues with every message prefixed.
func (is Issues) Prefixed(prefix string) Issues {
	out := make(Issues, len(is))
	for i, issue := range is {
		out[i] = Issue{Type: issue.Type, Message: prefix + issue.Message}
	}
	return out
}
