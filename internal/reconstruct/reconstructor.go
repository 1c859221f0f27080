// Package reconstruct renders structured messages back to TAC.
//
// Each token kind has a reconstructor producing the text of zero or more
// tokens of that kind from a message part. The serialiser runs them in the
// order of the family grammar and re-classifies every rendered text with
// the lexer's recognisers, so a reconstructed token always lexes back to
// the same kind.
package reconstruct

import (
	"fmt"
	"math"

	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
	"tac_converter/internal/patterns"
)

// Context is the rendering context shared by the reconstructors of one
// call.
type Context struct {
	Family conversion.Family
	Hints  conversion.Hints

	issues conversion.Issues
}

// Report records an issue found while rendering.
func (c *Context) Report(t conversion.IssueType, format string, args ...any) {
	c.issues.Add(t, format, args...)
}

// Reconstructor renders the tokens of one kind from a value of type T. A
// nil or empty result means the value has nothing of that kind.
type Reconstructor[T any] struct {
	Kind   lexer.Kind
	Render func(v T, ctx *Context) []string
}

// one wraps a single text, dropping empty ones.
func one(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// when returns text if cond holds.
func when(cond bool, text string) []string {
	if !cond {
		return nil
	}
	return []string{text}
}

// run emits the tokens of every reconstructor in order.
func run[T any](w *writer, v T, list []Reconstructor[T]) {
	for _, r := range list {
		w.emit(r.Kind, r.Render(v, w.ctx)...)
	}
}

func twoDigits(v int) string {
	return fmt.Sprintf("%02d", v)
}

// partialText renders the present fields of p as DDHHMM, DDHH or HHMM.
func partialText(p model.PartialDateTime) string {
	s := ""
	if p.Has(model.FieldDay) {
		s += twoDigits(p.Day)
	}
	if p.Has(model.FieldHour) {
		s += twoDigits(p.Hour)
	}
	if p.Has(model.FieldMinute) {
		s += twoDigits(p.Minute)
	}
	return s
}

// temperature renders M05 style values. Negative zero renders as M00.
func temperature(v float64) string {
	n := int(math.Round(math.Abs(v)))
	if math.Signbit(v) {
		return fmt.Sprintf("M%02d", n)
	}
	return fmt.Sprintf("%02d", n)
}

// altitude renders FL100, 3000FT or 0900M.
func altitude(a model.Altitude) string {
	switch a.Unit {
	case "FL":
		return fmt.Sprintf("FL%03d", a.Value)
	case "M":
		return fmt.Sprintf("%04dM", a.Value)
	}
	return fmt.Sprintf("%04dFT", a.Value)
}

// levelText renders a level range, a single level or a modified level.
func levelText(l *model.Level) string {
	if l == nil {
		return ""
	}
	var s string
	switch {
	case l.Upper != nil && (l.Surface || l.Lower != nil):
		lower := "SFC"
		if !l.Surface {
			lower = altitude(*l.Lower)
		}
		upper := altitude(*l.Upper)
		if !l.Surface && l.Upper.Unit == "FL" && l.Lower.Unit == "FL" {
			upper = fmt.Sprintf("%03d", l.Upper.Value)
		}
		s = lower + "/" + upper
	case l.Lower != nil:
		s = altitude(*l.Lower)
	default:
		return ""
	}
	if l.Modifier != "" {
		s = l.Modifier + " " + s
	}
	return s
}

// latLon renders a polygon point. Minutes are included when asked for or
// when a coordinate is not a whole degree.
func latLon(lat, lon float64, minutes bool) string {
	if !minutes {
		minutes = lat != math.Trunc(lat) || lon != math.Trunc(lon)
	}
	return patterns.FormatLatitude(lat, minutes) + " " + patterns.FormatLongitude(lon, minutes)
}
