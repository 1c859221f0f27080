// Package converter is the entry point for converting TAC text to
// structured messages and back. It picks the parser by message family,
// stamps translation times from its clock and reports every conversion to
// a logger and an optional recorder.
package converter

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
	"tac_converter/internal/parser"
	"tac_converter/internal/reconstruct"
)

// ErrUnknownFamily is returned when the family of a message can neither be
// detected from its text nor taken from the hints.
var ErrUnknownFamily = errors.New("unknown message family")

// Recorder receives the outcome of every conversion.
type Recorder interface {
	ConversionCompleted(op string, family conversion.Family, status conversion.Status, took time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ConversionCompleted(string, conversion.Family, conversion.Status, time.Duration) {}

// Parsed is the result of parsing a message of any family.
type Parsed struct {
	Family  conversion.Family `json:"family" msgpack:"family"`
	Status  conversion.Status `json:"status" msgpack:"status"`
	Message model.Message     `json:"message,omitempty" msgpack:"message,omitempty"`
	Issues  conversion.Issues `json:"issues,omitempty" msgpack:"issues,omitempty"`
}

// Converter parses and serialises messages of every supported family. It is
// safe for concurrent use.
type Converter struct {
	lexer      *lexer.Lexer
	parser     *parser.Parser
	serializer *reconstruct.Serializer
	clock      clockwork.Clock
	logger     *slog.Logger
	recorder   Recorder
}

// Option configures a Converter.
type Option func(*Converter)

// WithClock sets the clock used for translation times and durations.
func WithClock(c clockwork.Clock) Option {
	return func(cv *Converter) { cv.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cv *Converter) { cv.logger = l }
}

// WithRecorder sets the recorder notified after each conversion.
func WithRecorder(r Recorder) Option {
	return func(cv *Converter) { cv.recorder = r }
}

// New creates a converter over the default recogniser set.
func New(opts ...Option) *Converter {
	lx := lexer.New(nil)
	c := &Converter{
		lexer:      lx,
		parser:     parser.New(lx),
		serializer: reconstruct.New(lx.Recognisers()),
		clock:      clockwork.NewRealClock(),
		logger:     slog.Default(),
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Family returns the family tac is parsed as: the one forced by hints, a
// bulletin when tac starts with a heading line, or the family detected
// from the leading words.
func (c *Converter) Family(tac string, hints conversion.Hints) conversion.Family {
	if hints.Family != conversion.FamilyUnknown {
		return hints.Family
	}
	if parser.IsBulletin(tac) {
		return conversion.FamilyBulletin
	}
	return lexer.DetectFamily(tac)
}

// Parse converts tac to a structured message. A zero TranslationTime in
// hints is replaced by the current time of the converter's clock.
func (c *Converter) Parse(tac string, hints conversion.Hints) (Parsed, error) {
	start := c.clock.Now()
	if hints.TranslationTime.IsZero() {
		hints.TranslationTime = start.UTC()
	}

	family := c.Family(tac, hints)
	var out Parsed
	switch family {
	case conversion.FamilyMETAR, conversion.FamilySPECI:
		out = parsed(c.parser.METAR(tac, hints))
	case conversion.FamilyTAF:
		out = parsed(c.parser.TAF(tac, hints))
	case conversion.FamilySIGMET, conversion.FamilyAIRMET:
		out = parsed(c.parser.SIGMET(tac, hints))
	case conversion.FamilySWX:
		out = parsed(c.parser.SWX(tac, hints))
	case conversion.FamilyBulletin:
		out = parsed(c.parser.Bulletin(tac, hints))
	default:
		c.logger.Debug("unknown message family", "tac", truncate(tac, 40))
		c.recorder.ConversionCompleted("parse", family, conversion.StatusFail, c.clock.Since(start))
		return Parsed{}, ErrUnknownFamily
	}
	if out.Message != nil {
		out.Family = out.Message.Family()
	} else {
		out.Family = family
	}

	c.logger.Debug("parsed message",
		"family", out.Family,
		"status", out.Status,
		"issues", len(out.Issues),
		"location", location(out.Message))
	c.recorder.ConversionCompleted("parse", out.Family, out.Status, c.clock.Since(start))
	return out, nil
}

// Serialize renders msg as TAC.
func (c *Converter) Serialize(msg model.Message, hints conversion.Hints) conversion.Result[string] {
	start := c.clock.Now()
	res := c.serializer.Serialize(msg, hints)

	family := conversion.FamilyUnknown
	if msg != nil {
		family = msg.Family()
	}
	c.logger.Debug("serialized message", "family", family, "status", res.Status, "issues", len(res.Issues))
	c.recorder.ConversionCompleted("serialize", family, res.Status, c.clock.Since(start))
	return res
}

// Lex splits tac into tokens without parsing it.
func (c *Converter) Lex(tac string, hints conversion.Hints) *lexer.Sequence {
	if hints.Family == conversion.FamilyUnknown {
		hints.Family = c.Family(tac, hints)
	}
	return c.lexer.Lex(tac, hints)
}

// Candidates lists the recognisers whose pattern matches text, ignoring
// their family and position rules.
func (c *Converter) Candidates(text string) []string {
	var names []string
	for _, f := range c.lexer.Recognisers().Trace(text).Formats {
		if f.Matched {
			names = append(names, f.Name)
		}
	}
	return names
}

// parsed moves a typed result behind the Message interface.
func parsed[T any, PT interface {
	*T
	model.Message
}](r conversion.Result[T]) Parsed {
	out := Parsed{Status: r.Status, Issues: r.Issues}
	if r.Message != nil {
		out.Message = PT(r.Message)
	}
	return out
}

func location(m model.Message) string {
	if m == nil {
		return ""
	}
	return m.Location()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
