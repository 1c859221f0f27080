package reconstruct

import (
	"strings"

	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
)

// piece is one rendered token.
type piece struct {
	text  string
	kind  lexer.Kind
	brk   bool // starts a new line
	label bool // SWX label, padded when a label width is set
}

// writer collects rendered tokens and checks each against the
// recognisers in the same running context the lexer would use.
type writer struct {
	set    *lexer.RecogniserSet
	ctx    *Context
	lexCtx lexer.Context
	pieces []piece

	breakNext bool
}

func newWriter(set *lexer.RecogniserSet, family conversion.Family, hints conversion.Hints) *writer {
	return &writer{
		set:    set,
		ctx:    &Context{Family: family, Hints: hints},
		lexCtx: lexer.Context{Family: family, Hints: hints},
	}
}

// newline makes the next token start a new line.
func (w *writer) newline() {
	w.breakNext = true
}

// emit adds tokens of kind k.
func (w *writer) emit(k lexer.Kind, texts ...string) {
	for _, text := range texts {
		if text == "" {
			continue
		}
		w.check(k, text)
		w.pieces = append(w.pieces, piece{text: text, kind: k, brk: w.breakNext})
		w.breakNext = false
	}
}

// label adds an SWX label on a new line.
func (w *writer) label(k lexer.Kind, text string) {
	w.newline()
	w.emit(k, text)
	w.pieces[len(w.pieces)-1].label = true
}

// check re-classifies text and records an OTHER issue when it does not
// lex back to kind k.
func (w *writer) check(k lexer.Kind, text string) {
	tok, ok := w.set.Classify(text, &w.lexCtx)
	switch {
	case !ok || tok.Kind != k:
		got := lexer.KindNone
		if ok {
			got = tok.Kind
		}
		w.ctx.Report(conversion.IssueOther, "Reconstructed token '%s' of type %s lexes as %s", text, k, got)
	case tok.Status != lexer.StatusOK:
		w.ctx.Report(conversion.IssueOther, "Reconstructed token '%s' is invalid: %s", text, tok.Message)
	}

	w.lexCtx.Advance(k)
}

// end emits the end token.
func (w *writer) end() {
	w.emit(lexer.KindEndToken, "=")
}

// String lays the tokens out: single spaces between tokens, the end token
// attached to the last one, SWX labels padded, lines wrapped at token
// boundaries when a maximum line length is set.
func (w *writer) String() string {
	var lines [][]string
	for _, p := range w.pieces {
		if p.kind == lexer.KindEndToken && len(lines) > 0 {
			last := lines[len(lines)-1]
			last[len(last)-1] += p.text
			continue
		}
		text := p.text
		if p.label {
			text = padLabel(text, w.ctx.Hints.SWXLabelEndLength)
		}
		if p.brk || len(lines) == 0 {
			lines = append(lines, nil)
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], text)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrap(line, w.ctx.Hints.MaxLineLength)...)
	}
	return strings.Join(out, "\n")
}

// padLabel pads a label so that the value after it starts at column
// width.
func padLabel(label string, width int) string {
	if width <= len(label)+1 {
		return label
	}
	return label + strings.Repeat(" ", width-len(label)-1)
}

// wrap joins tokens with single spaces, starting a new line before a
// token that would make the line longer than limit.
func wrap(tokens []string, limit int) []string {
	var lines []string
	var b strings.Builder
	for _, tok := range tokens {
		if b.Len() > 0 && limit > 0 && b.Len()+1+len(strings.TrimRight(tok, " ")) > limit {
			lines = append(lines, strings.TrimRight(b.String(), " "))
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	if b.Len() > 0 {
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}
