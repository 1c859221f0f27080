package parser

import (
	"fmt"
	"strings"

	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
	"tac_converter/internal/patterns"
)

var headingCompiler = func() *patterns.Compiler {
	c := patterns.NewCompiler([]patterns.Format{{
		Name:    "gts_heading",
		Pattern: `(?P<designator>[A-Z]{4}\d{2}) (?P<location>{ICAO}) (?P<day>{DD})(?P<hour>{HH})(?P<minute>{MM})(?: (?P<bbb>[A-Z]{3}))?`,
	}}, nil)
	if err := c.Compile(); err != nil {
		panic(err)
	}
	return c
}()

// designatorFamilies maps the TT part of a heading to the message family.
var designatorFamilies = map[string]conversion.Family{
	"FC": conversion.FamilyTAF,
	"FT": conversion.FamilyTAF,
	"SA": conversion.FamilyMETAR,
	"SP": conversion.FamilySPECI,
	"WS": conversion.FamilySIGMET,
	"WC": conversion.FamilySIGMET,
	"WV": conversion.FamilySIGMET,
	"WA": conversion.FamilyAIRMET,
	"FN": conversion.FamilySWX,
}

// IsBulletin reports whether tac starts with a GTS bulletin heading line.
func IsBulletin(tac string) bool {
	headLine, _, _ := strings.Cut(strings.TrimLeft(tac, " \t\r\n"), "\n")
	return headingCompiler.Match("gts_heading", strings.Join(strings.Fields(headLine), " ")) != nil
}

// Bulletin parses a GTS bulletin: a heading line followed by messages each
// terminated by "=". Issues of each message are prefixed with its index.
func (p *Parser) Bulletin(tac string, hints conversion.Hints) conversion.Result[model.Bulletin] {
	headLine, body, _ := strings.Cut(strings.TrimLeft(tac, " \t\r\n"), "\n")
	m := headingCompiler.Match("gts_heading", strings.Join(strings.Fields(headLine), " "))
	if m == nil {
		return conversion.Fail[model.Bulletin](conversion.NewIssue(conversion.IssueSyntax,
			"The input message is not recognized as BULLETIN: invalid heading '%s'", strings.TrimSpace(headLine)))
	}

	day, _ := m.Int("day")
	hour, _ := m.Int("hour")
	minute, _ := m.Int("minute")
	b := &model.Bulletin{
		Translation: translation(tac, hints),
		Heading: model.BulletinHeading{
			Designator:   m.GetCapture("designator", ""),
			Location:     m.GetCapture("location", ""),
			IssueTime:    model.DayHourMinute(day, hour, minute),
			Augmentation: m.GetCapture("bbb", ""),
		},
	}

	var issues conversion.Issues
	if err := b.Heading.IssueTime.Validate(); err != nil {
		issues.Add(conversion.IssueSyntax, "Invalid bulletin heading time: %v", err)
	}
	family := designatorFamilies[b.Heading.Designator[:2]]

	for i, text := range splitMessages(body) {
		prefix := fmt.Sprintf("Message %d: ", i+1)
		f := family
		if detected := lexer.DetectFamily(text); detected != conversion.FamilyUnknown {
			f = detected
		} else if f == conversion.FamilyTAF || f.IsObservation() {
			text = f.String() + " " + text
		}
		if f == conversion.FamilyUnknown {
			issues.Add(conversion.IssueSyntax, "%sunknown message type", prefix)
			continue
		}

		msg, msgIssues := p.message(text, hints, f)
		issues.Append(msgIssues.Prefixed(prefix)...)
		if msg != nil {
			b.Messages = append(b.Messages, msg)
		}
	}
	if len(b.Messages) == 0 {
		issues.Add(conversion.IssueMissingData, "Bulletin contains no messages")
	}
	return finish(b, issues, hints)
}

// message parses one message of a known family.
func (p *Parser) message(text string, hints conversion.Hints, f conversion.Family) (model.Message, conversion.Issues) {
	switch {
	case f == conversion.FamilyTAF:
		return unwrap(p.TAF(text, hints))
	case f.IsObservation():
		return unwrap(p.METAR(text, hints))
	case f.IsSigmet():
		return unwrap(p.SIGMET(text, hints))
	case f == conversion.FamilySWX:
		return unwrap(p.SWX(text, hints))
	}
	return nil, conversion.Issues{conversion.NewIssue(conversion.IssueOther, "unsupported message family %s", f)}
}

// unwrap returns the message of a result as a Message, or nil on FAIL.
func unwrap[T any, PT interface {
	*T
	model.Message
}](r conversion.Result[T]) (model.Message, conversion.Issues) {
	if r.Status == conversion.StatusFail || r.Message == nil {
		return nil, r.Issues
	}
	return PT(r.Message), r.Issues
}

// splitMessages cuts a bulletin body at the end tokens. The "=" is kept on
// each message.
func splitMessages(body string) []string {
	var out []string
	for {
		i := strings.IndexByte(body, '=')
		if i < 0 {
			break
		}
		if text := strings.TrimSpace(body[:i]); text != "" {
			out = append(out, text+"=")
		}
		body = body[i+1:]
	}
	if text := strings.TrimSpace(body); text != "" {
		out = append(out, text)
	}
	return out
}
