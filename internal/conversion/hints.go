package conversion

import (
	"fmt"
	"strings"
	"time"
)

// ParsingMode controls how lexing problems are treated.
type ParsingMode int

const (
	// ModeStrict fails the conversion on any unrecognised or invalid token.
	ModeStrict ParsingMode = iota
	// ModeAllowSyntaxErrors keeps going and reports what it can.
	ModeAllowSyntaxErrors
)

func (m ParsingMode) String() string {
	if m == ModeAllowSyntaxErrors {
		return "ALLOW_SYNTAX_ERRORS"
	}
	return "STRICT"
}

// ParseParsingMode accepts the names used in configuration and on the
// command line.
func ParseParsingMode(s string) (ParsingMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "STRICT":
		return ModeStrict, nil
	case "ALLOW_SYNTAX_ERRORS", "LENIENT":
		return ModeAllowSyntaxErrors, nil
	}
	return ModeStrict, fmt.Errorf("unknown parsing mode %q", s)
}

// DefaultSWXLabelEndLength is the label column width used when hints do
// not set one.
const DefaultSWXLabelEndLength = 20

// Hints is the per-call configuration of a conversion.
type Hints struct {
	Mode ParsingMode

	// SWXLabelEndLength is the column where the label block of a space
	// weather advisory line ends. Lexing looks for the label colon within
	// this many characters; serialising pads labels to this width when set.
	SWXLabelEndLength int

	// TranslationTime stamps parsed messages. Zero means "now".
	TranslationTime time.Time

	// MaxLineLength wraps serialised output at token boundaries. Zero
	// disables wrapping.
	MaxLineLength int

	// AllowMissingEndToken turns a missing "=" into a SYNTAX issue instead
	// of a failure.
	AllowMissingEndToken bool

	// Family forces the message family instead of detecting it.
	Family Family

	StatusPolicy StatusPolicy
}

// Lenient reports whether syntax errors are allowed.
func (h Hints) Lenient() bool {
	return h.Mode == ModeAllowSyntaxErrors
}

// LabelEndLength returns the effective SWX label block width for lexing.
func (h Hints) LabelEndLength() int {
	if h.SWXLabelEndLength > 0 {
		return h.SWXLabelEndLength
	}
	return DefaultSWXLabelEndLength
}
