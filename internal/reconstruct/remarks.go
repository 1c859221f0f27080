package reconstruct

import (
	"strings"

	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
)

// remarks renders RMK followed by the remark words.
func remarks(w *writer, words []string) {
	if len(words) == 0 {
		return
	}
	w.emit(lexer.KindRemarksStart, "RMK")
	remarkWords(w, words)
}

// remarkWords emits remark words. An end token inside a remark would end
// the message early, so it is removed.
func remarkWords(w *writer, words []string) {
	for _, word := range words {
		if strings.Contains(word, "=") {
			w.ctx.Report(conversion.IssueOther, "Removed '=' from remark '%s'", word)
			word = strings.ReplaceAll(word, "=", "")
		}
		w.emit(lexer.KindRemark, word)
	}
}
