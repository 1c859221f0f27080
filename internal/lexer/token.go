package lexer

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the lexing outcome of a single token.
type Status int

const (
	StatusOK Status = iota
	// StatusSyntaxError is a recognised token with an invalid value.
	StatusSyntaxError
	// StatusUnrecognised is text no recogniser claimed.
	StatusUnrecognised
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusSyntaxError:
		return "SYNTAX_ERROR"
	case StatusUnrecognised:
		return "UNRECOGNIZED"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Token is one classified piece of bulletin text. Tokens are not modified
// after classification.
type Token struct {
	Text    string // normalised text, words separated by one space
	Kind    Kind
	Status  Status
	Message string // syntax error detail
	Start   int    // byte offset of the first character in the TAC
	End     int    // byte offset after the last character
	Index   int    // position in the full sequence

	slots map[Slot]any
}

// set stores a parsed value. Setting a slot the kind does not declare is a
// recogniser bug.
func (t *Token) set(s Slot, v any) {
	if !declares(t.Kind, s) {
		panic(fmt.Sprintf("lexer: kind %s does not declare slot %s", t.Kind, s))
	}
	if t.slots == nil {
		t.slots = make(map[Slot]any)
	}
	t.slots[s] = v
}

// fail marks the token as a syntax error while keeping its kind.
func (t *Token) fail(format string, args ...any) {
	if t.Status == StatusSyntaxError {
		return
	}
	t.Status = StatusSyntaxError
	t.Message = fmt.Sprintf(format, args...)
}

// Recognised reports whether the token has a kind.
func (t *Token) Recognised() bool {
	return t.Kind != KindNone
}

// Has reports whether a slot is present.
func (t *Token) Has(s Slot) bool {
	_, ok := t.slots[s]
	return ok
}

// Value returns a slot value.
func (t *Token) Value(s Slot) (any, bool) {
	v, ok := t.slots[s]
	return v, ok
}

// Int returns an integer slot.
func (t *Token) Int(s Slot) (int, bool) {
	v, ok := t.slots[s].(int)
	return v, ok
}

// Float returns a floating point slot.
func (t *Token) Float(s Slot) (float64, bool) {
	v, ok := t.slots[s].(float64)
	return v, ok
}

// Str returns a string slot, or "" when absent.
func (t *Token) Str(s Slot) string {
	v, _ := t.slots[s].(string)
	return v
}

// Slots returns the present slots in declaration order.
func (t *Token) Slots() []Slot {
	out := make([]Slot, 0, len(t.slots))
	for s := range t.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SameValues reports whether two tokens have the same kind and slot values.
func (t *Token) SameValues(o *Token) bool {
	if t.Kind != o.Kind || len(t.slots) != len(o.slots) {
		return false
	}
	for s, v := range t.slots {
		ov, ok := o.slots[s]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

func (t *Token) String() string {
	var b strings.Builder
	b.WriteString(t.Kind.String())
	b.WriteString("(")
	b.WriteString(t.Text)
	b.WriteString(")")
	for _, s := range t.Slots() {
		fmt.Fprintf(&b, " %s=%v", s, t.slots[s])
	}
	if t.Status != StatusOK {
		fmt.Fprintf(&b, " [%s", t.Status)
		if t.Message != "" {
			b.WriteString(": " + t.Message)
		}
		b.WriteString("]")
	}
	return b.String()
}
