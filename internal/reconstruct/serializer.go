package reconstruct

import (
	"fmt"
	"strings"

	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

// Serializer renders messages to TAC. It is safe for concurrent use.
type Serializer struct {
	set *lexer.RecogniserSet
}

// New creates a serialiser that checks output against set. A nil set uses
// the default recognisers.
func New(set *lexer.RecogniserSet) *Serializer {
	if set == nil {
		set = lexer.Default()
	}
	return &Serializer{set: set}
}

// Serialize renders any supported message.
func (s *Serializer) Serialize(msg model.Message, hints conversion.Hints) conversion.Result[string] {
	switch m := msg.(type) {
	case *model.TAF:
		return s.TAF(m, hints)
	case *model.METAR:
		return s.METAR(m, hints)
	case *model.SIGMET:
		return s.SIGMET(m, hints)
	case *model.SpaceWeatherAdvisory:
		return s.SWX(m, hints)
	case *model.Bulletin:
		return s.Bulletin(m, hints)
	case nil:
		return conversion.Fail[string](conversion.NewIssue(conversion.IssueOther, "No message to serialize"))
	}
	return conversion.Fail[string](conversion.NewIssue(conversion.IssueOther,
		"Serializing %T is not supported", msg))
}

func (s *Serializer) TAF(t *model.TAF, hints conversion.Hints) conversion.Result[string] {
	w := newWriter(s.set, conversion.FamilyTAF, hints)
	serializeTAF(w, t)
	return w.result()
}

func (s *Serializer) METAR(m *model.METAR, hints conversion.Hints) conversion.Result[string] {
	w := newWriter(s.set, m.Family(), hints)
	serializeMETAR(w, m)
	return w.result()
}

func (s *Serializer) SIGMET(sg *model.SIGMET, hints conversion.Hints) conversion.Result[string] {
	w := newWriter(s.set, sg.Family(), hints)
	serializeSIGMET(w, sg)
	return w.result()
}

func (s *Serializer) SWX(a *model.SpaceWeatherAdvisory, hints conversion.Hints) conversion.Result[string] {
	w := newWriter(s.set, conversion.FamilySWX, hints)
	serializeSWX(w, a)
	return w.result()
}

// Bulletin renders the heading line followed by each message on its own
// lines. Message issues are prefixed with the message number.
func (s *Serializer) Bulletin(b *model.Bulletin, hints conversion.Hints) conversion.Result[string] {
	h := b.Heading
	heading := fmt.Sprintf("%s %s %s", h.Designator, h.Location, partialText(h.IssueTime))
	if h.Augmentation != "" {
		heading += " " + h.Augmentation
	}

	parts := []string{heading}
	var issues conversion.Issues
	if len(b.Messages) == 0 {
		issues.Add(conversion.IssueMissingData, "Bulletin contains no messages")
	}
	for i, msg := range b.Messages {
		if _, nested := msg.(*model.Bulletin); nested {
			issues.Add(conversion.IssueOther, "Message %d: Nested bulletins are not supported", i+1)
			continue
		}
		res := s.Serialize(msg, hints)
		issues.Append(res.Issues.Prefixed(fmt.Sprintf("Message %d: ", i+1))...)
		if res.Message != nil {
			parts = append(parts, *res.Message)
		}
	}

	text := strings.Join(parts, "\n")
	res := conversion.Result[string]{Message: &text, Issues: issues}
	res.Finish(hints)
	return res
}

func (w *writer) result() conversion.Result[string] {
	text := w.String()
	res := conversion.Result[string]{Message: &text, Issues: w.ctx.issues}
	res.Finish(w.ctx.Hints)
	return res
}
