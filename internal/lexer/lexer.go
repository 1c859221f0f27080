package lexer

import (
	"strings"
	"unicode"

	"tac_converter/internal/conversion"
)

// Lexer splits TAC text into classified tokens.
type Lexer struct {
	set *RecogniserSet
}

// New creates a lexer over a recogniser set. A nil set uses Default().
func New(set *RecogniserSet) *Lexer {
	if set == nil {
		set = Default()
	}
	return &Lexer{set: set}
}

// Recognisers returns the set the lexer classifies with.
func (l *Lexer) Recognisers() *RecogniserSet {
	return l.set
}

// LexMessage lexes one message with the default recogniser set.
func LexMessage(tac string, hints conversion.Hints) *Sequence {
	return New(nil).Lex(tac, hints)
}

// DetectFamily guesses the message family from the leading words.
func DetectFamily(tac string) conversion.Family {
	words := strings.Fields(strings.ToUpper(tac))
	if len(words) == 0 {
		return conversion.FamilyUnknown
	}
	switch words[0] {
	case "METAR":
		return conversion.FamilyMETAR
	case "SPECI":
		return conversion.FamilySPECI
	case "TAF":
		return conversion.FamilyTAF
	case "SWX":
		if len(words) > 1 && words[1] == "ADVISORY" {
			return conversion.FamilySWX
		}
	}
	for i := 0; i < len(words) && i < 3; i++ {
		switch words[i] {
		case "SIGMET":
			return conversion.FamilySIGMET
		case "AIRMET":
			return conversion.FamilyAIRMET
		}
	}
	return conversion.FamilyUnknown
}

// chunk is a run of text the lexer treats as one unit: a word, an end
// token, or a space weather label.
type chunk struct {
	text  string
	start int
	end   int
	label bool
}

func (c chunk) atomic() bool {
	return c.label || c.text == "="
}

// Lex classifies the whole text. It never fails: text nothing recognises
// becomes UNRECOGNIZED tokens, and invalid values become SYNTAX_ERROR
// tokens. The family comes from hints when set, otherwise from the text.
func (l *Lexer) Lex(tac string, hints conversion.Hints) *Sequence {
	family := hints.Family
	if family == conversion.FamilyUnknown || family == conversion.FamilyBulletin {
		family = DetectFamily(tac)
	}

	chunks := splitChunks(tac, family == conversion.FamilySWX, hints.LabelEndLength())
	ctx := &Context{Family: family, Hints: hints}
	tokens := make([]Token, 0, len(chunks))

	for i := 0; i < len(chunks); {
		tok, n := l.classifyAt(chunks, i, ctx)
		if n == 0 {
			// An unmatched label is retried word by word.
			chunks = splitLabel(chunks, i)
			continue
		}
		tokens = append(tokens, tok)
		i += n

		if !tok.Recognised() {
			continue
		}
		ctx.Advance(tok.Kind)
	}
	return NewSequence(tac, tokens)
}

// classifyAt tries the longest run of chunks first. It returns the number
// of chunks consumed, or zero for a label chunk that must be split.
func (l *Lexer) classifyAt(chunks []chunk, i int, ctx *Context) (Token, int) {
	limit := l.set.MaxWords()
	if rest := len(chunks) - i; rest < limit {
		limit = rest
	}
	for k := limit; k >= 1; k-- {
		if k > 1 && anyAtomic(chunks[i:i+k]) {
			continue
		}
		texts := make([]string, k)
		for j := 0; j < k; j++ {
			texts[j] = chunks[i+j].text
		}
		tok, ok := l.set.Classify(strings.Join(texts, " "), ctx)
		if !ok {
			continue
		}
		tok.Start = chunks[i].start
		tok.End = chunks[i+k-1].end
		return tok, k
	}
	if chunks[i].label && strings.Contains(chunks[i].text, " ") {
		return Token{}, 0
	}
	return Token{
		Text:   chunks[i].text,
		Kind:   KindNone,
		Status: StatusUnrecognised,
		Start:  chunks[i].start,
		End:    chunks[i].end,
	}, 1
}

func anyAtomic(cs []chunk) bool {
	for _, c := range cs {
		if c.atomic() {
			return true
		}
	}
	return false
}

// splitChunks breaks the text into words and end tokens. For space weather
// advisories the text up to a colon within labelEnd columns of a line
// start is kept together as a label.
func splitChunks(tac string, swx bool, labelEnd int) []chunk {
	var out []chunk
	offset := 0
	for _, line := range strings.SplitAfter(tac, "\n") {
		body := line
		base := offset
		offset += len(line)

		if swx {
			if c := strings.IndexByte(body, ':'); c >= 0 && c < labelEnd {
				if text := normalise(body[:c+1]); text != ":" && text != "" {
					start := base + strings.IndexFunc(body, isNotSpace)
					out = append(out, chunk{text: text, start: start, end: base + c + 1, label: true})
					body = body[c+1:]
					base += c + 1
				}
			}
		}
		out = append(out, splitWords(body, base)...)
	}
	return out
}

// splitWords cuts a line into words, giving every "=" a chunk of its own.
func splitWords(body string, base int) []chunk {
	var out []chunk
	start := -1
	flush := func(end int) {
		if start >= 0 {
			out = append(out, chunk{text: body[start:end], start: base + start, end: base + end})
			start = -1
		}
	}
	for i, r := range body {
		switch {
		case unicode.IsSpace(r):
			flush(i)
		case r == '=':
			flush(i)
			out = append(out, chunk{text: "=", start: base + i, end: base + i + 1})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(body))
	return out
}

// splitLabel replaces the label chunk at i by its words.
func splitLabel(chunks []chunk, i int) []chunk {
	c := chunks[i]
	words := splitWords(c.text, c.start)
	out := make([]chunk, 0, len(chunks)+len(words))
	out = append(out, chunks[:i]...)
	out = append(out, words...)
	return append(out, chunks[i+1:]...)
}

func normalise(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isNotSpace(r rune) bool {
	return !unicode.IsSpace(r)
}
