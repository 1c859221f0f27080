package reconstruct

import (
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

var tafHeader = []Reconstructor[*model.TAF]{
	{lexer.KindTafStart, func(*model.TAF, *Context) []string { return []string{"TAF"} }},
	{lexer.KindCorrection, func(t *model.TAF, _ *Context) []string { return when(t.Status == model.TAFCorrection, "COR") }},
	{lexer.KindAmendment, func(t *model.TAF, _ *Context) []string {
		return when(t.Status == model.TAFAmendment || t.Status == model.TAFCancellation, "AMD")
	}},
	{lexer.KindAerodromeDesignator, func(t *model.TAF, _ *Context) []string { return one(t.Aerodrome) }},
	{lexer.KindIssueTime, func(t *model.TAF, _ *Context) []string { return one(issueTimeText(t.IssueTime)) }},
	{lexer.KindNil, func(t *model.TAF, _ *Context) []string { return when(t.Status == model.TAFMissing, "NIL") }},
	{lexer.KindValidTime, func(t *model.TAF, _ *Context) []string {
		if t.Status == model.TAFMissing {
			return nil
		}
		return one(periodText(t.Validity))
	}},
	{lexer.KindCancellation, func(t *model.TAF, _ *Context) []string {
		return when(t.Status == model.TAFCancellation, "CNL")
	}},
}

var tafTemperatures = []Reconstructor[*model.TemperaturePair]{
	{lexer.KindMaxTemperature, func(p *model.TemperaturePair, _ *Context) []string {
		return []string{"TX" + temperature(p.Max) + "/" + partialText(p.MaxTime) + "Z"}
	}},
	{lexer.KindMinTemperature, func(p *model.TemperaturePair, _ *Context) []string {
		return []string{"TN" + temperature(p.Min) + "/" + partialText(p.MinTime) + "Z"}
	}},
}

var tafChangeHeader = []Reconstructor[*model.TAFChangeForecast]{
	{lexer.KindForecastChangeIndicator, func(c *model.TAFChangeForecast, _ *Context) []string {
		if c.Type == model.ChangeFrom {
			return []string{"FM" + partialText(c.Period.Start)}
		}
		return []string{string(c.Type)}
	}},
	{lexer.KindChangeForecastTimeGroup, func(c *model.TAFChangeForecast, _ *Context) []string {
		if c.Type == model.ChangeFrom {
			return nil
		}
		return one(periodText(c.Period))
	}},
}

// serializeTAF renders a TAF. NIL and CNL end the message after the
// header.
func serializeTAF(w *writer, t *model.TAF) {
	run(w, t, tafHeader)
	if t.Status == model.TAFMissing || t.Status == model.TAFCancellation {
		remarks(w, t.Remarks)
		w.end()
		return
	}

	if base := t.BaseForecast; base != nil {
		run(w, &base.Conditions, baseConditions)
		for i := range base.Temperatures {
			run(w, &base.Temperatures[i], tafTemperatures)
		}
	}
	for i := range t.ChangeForecasts {
		change := &t.ChangeForecasts[i]
		w.newline()
		run(w, change, tafChangeHeader)
		run(w, &change.Conditions, changeConditions)
	}
	remarks(w, t.Remarks)
	w.end()
}

func issueTimeText(p model.PartialDateTime) string {
	if p.IsZero() {
		return ""
	}
	return partialText(p) + "Z"
}

// periodText renders DDHH/DDHH validity and change periods.
func periodText(p model.Period) string {
	if p.Start.IsZero() {
		return ""
	}
	return partialText(p.Start) + "/" + partialText(p.End)
}
