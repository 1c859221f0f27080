package reconstruct

import (
	"fmt"
	"math"

	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

var metarHeader = []Reconstructor[*model.METAR]{
	{lexer.KindMetarStart, func(m *model.METAR, _ *Context) []string { return when(!m.Special, "METAR") }},
	{lexer.KindSpeciStart, func(m *model.METAR, _ *Context) []string { return when(m.Special, "SPECI") }},
	{lexer.KindCorrection, func(m *model.METAR, _ *Context) []string { return when(m.Correction, "COR") }},
	{lexer.KindAerodromeDesignator, func(m *model.METAR, _ *Context) []string { return one(m.Aerodrome) }},
	{lexer.KindIssueTime, func(m *model.METAR, _ *Context) []string { return one(issueTimeText(m.IssueTime)) }},
	{lexer.KindNil, func(m *model.METAR, _ *Context) []string { return when(m.Missing, "NIL") }},
}

// observed wraps a conditions reconstructor for the observed conditions.
func observed(k lexer.Kind) Reconstructor[*model.METAR] {
	for _, r := range changeConditions {
		if r.Kind == k {
			render := r.Render
			return Reconstructor[*model.METAR]{k, func(m *model.METAR, ctx *Context) []string {
				return render(&m.Observed, ctx)
			}}
		}
	}
	panic(fmt.Sprintf("reconstruct: no conditions reconstructor for %s", k))
}

var metarObservation = []Reconstructor[*model.METAR]{
	{lexer.KindAutomatedObservation, func(m *model.METAR, _ *Context) []string { return when(m.Automated, "AUTO") }},
	observed(lexer.KindSurfaceWind),
	{lexer.KindVariableWindDirection, func(m *model.METAR, _ *Context) []string {
		if v := m.WindVariation; v != nil {
			return []string{fmt.Sprintf("%03dV%03d", v.From, v.To)}
		}
		return nil
	}},
	observed(lexer.KindCAVOK),
	{lexer.KindHorizontalVisibility, func(m *model.METAR, _ *Context) []string {
		if m.Observed.CAVOK {
			return nil
		}
		out := one(visibilityText(m.Observed.Visibility))
		if m.Observed.Visibility != nil {
			out = append(out, one(visibilityText(m.MinimumVisibility))...)
		}
		return out
	}},
	{lexer.KindRunwayVisualRange, func(m *model.METAR, _ *Context) []string {
		var out []string
		for _, r := range m.RunwayVisualRanges {
			out = append(out, fmt.Sprintf("R%s/%s%04d%s", r.Runway, operatorPrefix(r.Operator), r.Distance, r.Tendency))
		}
		return out
	}},
	observed(lexer.KindWeather),
	observed(lexer.KindCloud),
	{lexer.KindAirDewpointTemperature, func(m *model.METAR, _ *Context) []string {
		if t := m.Temperatures; t != nil {
			return []string{temperature(t.Air) + "/" + temperature(t.Dewpoint)}
		}
		return nil
	}},
	{lexer.KindAirPressureQNH, func(m *model.METAR, _ *Context) []string {
		p := m.Pressure
		if p == nil {
			return nil
		}
		if p.Unit == "inHg" {
			return []string{fmt.Sprintf("A%04d", int(math.Round(p.Value*100)))}
		}
		return []string{fmt.Sprintf("Q%04d", int(math.Round(p.Value)))}
	}},
	{lexer.KindRecentWeather, func(m *model.METAR, _ *Context) []string {
		var out []string
		for _, code := range m.RecentWeather {
			out = append(out, "RE"+code)
		}
		return out
	}},
	{lexer.KindWindShear, func(m *model.METAR, _ *Context) []string {
		ws := m.WindShear
		if ws == nil {
			return nil
		}
		if ws.AllRunways {
			return []string{"WS ALL RWY"}
		}
		out := make([]string, 0, len(ws.Runways))
		for _, rwy := range ws.Runways {
			out = append(out, "WS R"+rwy)
		}
		return out
	}},
	{lexer.KindTrendChangeIndicator, func(m *model.METAR, _ *Context) []string {
		return when(m.NoSignificantChanges, "NOSIG")
	}},
}

var metarTrendHeader = []Reconstructor[*model.METARTrend]{
	{lexer.KindTrendChangeIndicator, func(t *model.METARTrend, _ *Context) []string { return []string{string(t.Type)} }},
	{lexer.KindTrendTimeGroup, func(t *model.METARTrend, _ *Context) []string {
		var out []string
		for _, g := range []struct {
			prefix string
			at     model.PartialDateTime
		}{{"FM", t.From}, {"TL", t.Until}, {"AT", t.At}} {
			if !g.at.IsZero() {
				out = append(out, g.prefix+partialText(g.at))
			}
		}
		return out
	}},
}

func serializeMETAR(w *writer, m *model.METAR) {
	run(w, m, metarHeader)
	if !m.Missing {
		run(w, m, metarObservation)
		for i := range m.Trends {
			trend := &m.Trends[i]
			run(w, trend, metarTrendHeader)
			run(w, &trend.Conditions, changeConditions)
		}
	}
	remarks(w, m.Remarks)
	w.end()
}
