package lexer

import (
	"strings"

	"tac_converter/internal/conversion"
)

// Sequence is an ordered run of tokens over one TAC text. Sub-sequences
// produced by SplitBy share the token storage of their parent and all
// navigation stays within the sub-sequence bounds.
type Sequence struct {
	tac    string
	tokens []Token
}

// NewSequence wraps already classified tokens.
func NewSequence(tac string, tokens []Token) *Sequence {
	for i := range tokens {
		tokens[i].Index = i
	}
	return &Sequence{tac: tac, tokens: tokens}
}

// TAC returns the text the sequence was produced from.
func (s *Sequence) TAC() string {
	return s.tac
}

// Len returns the number of tokens.
func (s *Sequence) Len() int {
	return len(s.tokens)
}

// Token returns the token at position i, or nil when out of range.
func (s *Sequence) Token(i int) *Token {
	if i < 0 || i >= len(s.tokens) {
		return nil
	}
	return &s.tokens[i]
}

// First returns the first token, or nil for an empty sequence.
func (s *Sequence) First() *Token {
	return s.Token(0)
}

// Last returns the last token, or nil for an empty sequence.
func (s *Sequence) Last() *Token {
	return s.Token(len(s.tokens) - 1)
}

// Kinds lists the kind of every token in order.
func (s *Sequence) Kinds() []Kind {
	out := make([]Kind, len(s.tokens))
	for i := range s.tokens {
		out[i] = s.tokens[i].Kind
	}
	return out
}

// Find returns the position of the first token of kind k, or -1.
func (s *Sequence) Find(k Kind) int {
	return s.FindNext(k, -1)
}

// FindNext returns the position of the first token of kind k after from,
// skipping everything else, or -1.
func (s *Sequence) FindNext(k Kind, from int) int {
	for i := from + 1; i < len(s.tokens); i++ {
		if s.tokens[i].Kind == k {
			return i
		}
	}
	return -1
}

// FindAll returns the positions of every token of kind k.
func (s *Sequence) FindAll(k Kind) []int {
	var out []int
	for i := range s.tokens {
		if s.tokens[i].Kind == k {
			out = append(out, i)
		}
	}
	return out
}

// Has reports whether a token of kind k is present.
func (s *Sequence) Has(k Kind) bool {
	return s.Find(k) >= 0
}

// SplitBy cuts the sequence before every token whose kind is one of
// markers. The first part holds the tokens before the first marker (it may
// be empty); every later part starts with its marker.
func (s *Sequence) SplitBy(markers ...Kind) []*Sequence {
	parts := []*Sequence{}
	start := 0
	for i := range s.tokens {
		if containsKind(markers, s.tokens[i].Kind) {
			parts = append(parts, s.Sub(start, i))
			start = i
		}
	}
	return append(parts, s.Sub(start, len(s.tokens)))
}

// Sub returns the tokens in positions [from, to).
func (s *Sequence) Sub(from, to int) *Sequence {
	if from < 0 {
		from = 0
	}
	if to > len(s.tokens) {
		to = len(s.tokens)
	}
	if from > to {
		from = to
	}
	return &Sequence{tac: s.tac, tokens: s.tokens[from:to:to]}
}

// CheckBefore verifies that the token at pos appears before every token of
// the given kinds. It returns a SYNTAX issue when one of them precedes it.
func (s *Sequence) CheckBefore(pos int, kinds ...Kind) *conversion.Issue {
	tok := s.Token(pos)
	if tok == nil {
		return nil
	}
	for i := pos - 1; i >= 0; i-- {
		if containsKind(kinds, s.tokens[i].Kind) {
			issue := conversion.NewIssue(conversion.IssueSyntax,
				"Invalid token order: '%s' (%s) was found after one of type %s",
				tok.Text, tok.Kind, kindList(kinds))
			return &issue
		}
	}
	return nil
}

// CheckAtMostOnce reports a SYNTAX issue for every kind that occurs more
// than once.
func (s *Sequence) CheckAtMostOnce(kinds ...Kind) conversion.Issues {
	var issues conversion.Issues
	for _, k := range kinds {
		positions := s.FindAll(k)
		if len(positions) > 1 {
			issues.Add(conversion.IssueSyntax, "More than one %s in TAC: '%s'", k, s.tokens[positions[1]].Text)
		}
	}
	return issues
}

// ContentBetween returns the recognised tokens strictly between two
// positions, excluding the given kinds.
func (s *Sequence) ContentBetween(from, to int, except ...Kind) []*Token {
	var out []*Token
	for i := from + 1; i < to && i < len(s.tokens); i++ {
		t := &s.tokens[i]
		if !t.Recognised() || containsKind(except, t.Kind) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Unrecognised returns the tokens no recogniser claimed.
func (s *Sequence) Unrecognised() []*Token {
	return s.withStatus(StatusUnrecognised)
}

// SyntaxErrors returns the recognised tokens with invalid values.
func (s *Sequence) SyntaxErrors() []*Token {
	return s.withStatus(StatusSyntaxError)
}

// HasErrors reports whether any token is not OK.
func (s *Sequence) HasErrors() bool {
	for i := range s.tokens {
		if s.tokens[i].Status != StatusOK {
			return true
		}
	}
	return false
}

func (s *Sequence) withStatus(st Status) []*Token {
	var out []*Token
	for i := range s.tokens {
		if s.tokens[i].Status == st {
			out = append(out, &s.tokens[i])
		}
	}
	return out
}

// Texts returns the token texts in order.
func (s *Sequence) Texts() []string {
	out := make([]string, len(s.tokens))
	for i := range s.tokens {
		out[i] = s.tokens[i].Text
	}
	return out
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}

func kindList(kinds []Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
