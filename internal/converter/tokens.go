package converter

import "tac_converter/internal/lexer"

// TokenView is the exported form of a lexed token.
type TokenView struct {
	Index   int            `json:"index"`
	Text    string         `json:"text"`
	Kind    string         `json:"kind"`
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Start   int            `json:"start"`
	End     int            `json:"end"`
	Slots   map[string]any `json:"slots,omitempty"`

	// Candidates is only filled when tracing.
	Candidates []string `json:"candidates,omitempty"`
}

// Tokens lists the tokens of seq.
func Tokens(seq *lexer.Sequence) []TokenView {
	out := make([]TokenView, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		tok := seq.Token(i)
		v := TokenView{
			Index:   tok.Index,
			Text:    tok.Text,
			Kind:    tok.Kind.String(),
			Status:  tok.Status.String(),
			Message: tok.Message,
			Start:   tok.Start,
			End:     tok.End,
		}
		for _, s := range tok.Slots() {
			if v.Slots == nil {
				v.Slots = make(map[string]any)
			}
			v.Slots[s.String()], _ = tok.Value(s)
		}
		out = append(out, v)
	}
	return out
}
