// Package parser builds structured messages from lexed token sequences.
package parser

import (
	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

// Parser converts TAC text of every supported family. It is safe for
// concurrent use.
type Parser struct {
	lexer *lexer.Lexer
}

// New creates a parser. A nil lexer uses the default recogniser set.
func New(lx *lexer.Lexer) *Parser {
	if lx == nil {
		lx = lexer.New(nil)
	}
	return &Parser{lexer: lx}
}

// Lexer returns the lexer the parser uses.
func (p *Parser) Lexer() *lexer.Lexer {
	return p.lexer
}

// reporter is implemented by the model builders.
type reporter interface {
	Reported(element string)
}

// prepared is a lexed message that passed the structural checks.
type prepared struct {
	seq    *lexer.Sequence
	issues conversion.Issues
	// gaps is set when unrecognised tokens were skipped.
	gaps bool
}

// prepare lexes the text and runs the checks shared by all families: start
// token, lexing errors and end token. ok is false when the conversion fails.
func (p *Parser) prepare(tac string, hints conversion.Hints, family conversion.Family, name string,
	starts ...lexer.Kind) (*prepared, bool) {
	hints.Family = family
	seq := p.lexer.Lex(tac, hints)
	pr := &prepared{seq: seq}

	if first := seq.First(); first == nil || !containsKind(starts, first.Kind) {
		pr.issues.Add(conversion.IssueSyntax, "The input message is not recognized as %s", name)
		return pr, false
	}

	for _, tok := range seq.SyntaxErrors() {
		pr.issues.Add(conversion.IssueSyntaxError, "Invalid token '%s': %s", tok.Text, tok.Message)
	}
	unrecognised := seq.Unrecognised()
	if !hints.Lenient() {
		for _, tok := range unrecognised {
			pr.issues.Add(conversion.IssueSyntaxError, "Unrecognised token '%s'", tok.Text)
		}
		if len(pr.issues) > 0 {
			return pr, false
		}
	}
	pr.gaps = len(unrecognised) > 0

	if last := seq.Last(); last.Kind != lexer.KindEndToken {
		if !hints.AllowMissingEndToken {
			pr.issues.Add(conversion.IssueSyntax, "Message does not end in end token")
			return pr, false
		}
		pr.issues.Add(conversion.IssueSyntax, "Message does not end in end token")
	}
	return pr, true
}

// atMostOnce applies the duplicate rule: duplicates fail a strict
// conversion and are reported otherwise. ok is false on failure.
func (pr *prepared) atMostOnce(hints conversion.Hints, kinds ...lexer.Kind) bool {
	dups := pr.seq.CheckAtMostOnce(kinds...)
	if len(dups) > 0 && !hints.Lenient() {
		pr.issues = dups
		return false
	}
	pr.issues.Append(dups...)
	return true
}

// inOrder reports whether the token at pos precedes every token of the
// given kinds, and records an ordering issue when it does not.
func (pr *prepared) inOrder(pos int, kinds []lexer.Kind) bool {
	if issue := pr.seq.CheckBefore(pos, kinds...); issue != nil {
		pr.issues.Append(*issue)
		return false
	}
	return true
}

// first returns the first usable token of kind k, or nil. A token with a
// syntax error has already been reported, so the element is marked as
// reported and nil is returned.
func first(seq *lexer.Sequence, b reporter, k lexer.Kind, element string) *lexer.Token {
	pos := seq.Find(k)
	if pos < 0 {
		return nil
	}
	tok := seq.Token(pos)
	if tok.Status != lexer.StatusOK {
		if b != nil && element != "" {
			b.Reported(element)
		}
		return nil
	}
	return tok
}

// extraAfter reports whether recognised tokens other than the end token
// and remarks follow pos.
func extraAfter(seq *lexer.Sequence, pos int) bool {
	for i := pos + 1; i < seq.Len(); i++ {
		switch seq.Token(i).Kind {
		case lexer.KindEndToken, lexer.KindRemarksStart, lexer.KindRemark, lexer.KindNone:
			continue
		}
		return true
	}
	return false
}

// remarks collects the free text after the remarks start.
func remarks(seq *lexer.Sequence) []string {
	pos := seq.Find(lexer.KindRemarksStart)
	if pos < 0 {
		return nil
	}
	var out []string
	for i := pos + 1; i < seq.Len(); i++ {
		tok := seq.Token(i)
		if tok.Kind != lexer.KindRemark {
			break
		}
		out = append(out, tok.Str(lexer.SlotValue))
	}
	return out
}

// noSlot stands for a time part a token never carries.
const noSlot lexer.Slot = -1

// partial builds a PartialDateTime from three time slots of a token.
func partial(tok *lexer.Token, day, hour, minute lexer.Slot) model.PartialDateTime {
	get := func(s lexer.Slot) int {
		if v, ok := tok.Int(s); ok {
			return v
		}
		return -1
	}
	return model.NewPartial(get(day), get(hour), get(minute))
}

func startTime(tok *lexer.Token) model.PartialDateTime {
	return partial(tok, lexer.SlotDay1, lexer.SlotHour1, lexer.SlotMinute1)
}

func endTime(tok *lexer.Token) model.PartialDateTime {
	return partial(tok, lexer.SlotDay2, lexer.SlotHour2, lexer.SlotMinute2)
}

func translation(tac string, hints conversion.Hints) model.Translation {
	return model.Translation{TranslatedTAC: tac, TranslationTime: hints.TranslationTime}
}

// finish wraps a message and its issues into a result.
func finish[T any](msg *T, issues conversion.Issues, hints conversion.Hints) conversion.Result[T] {
	res := conversion.Result[T]{Message: msg, Issues: issues}
	res.Finish(hints)
	return res
}

func containsKind(kinds []lexer.Kind, k lexer.Kind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}
