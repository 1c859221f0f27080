package reconstruct

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
	"tac_converter/internal/patterns"
)

var sigmetHeader = []Reconstructor[*model.SIGMET]{
	{lexer.KindAtsuDesignator, func(s *model.SIGMET, _ *Context) []string { return one(s.IssuingUnit) }},
	{lexer.KindSigmetStart, func(s *model.SIGMET, _ *Context) []string { return []string{s.Family().String()} }},
	{lexer.KindSequenceDescriptor, func(s *model.SIGMET, _ *Context) []string { return one(s.Sequence) }},
	{lexer.KindValidTime, func(s *model.SIGMET, _ *Context) []string {
		v := s.Validity
		switch {
		case !v.Start.IsZero():
			return []string{"VALID " + partialText(v.Start) + "/" + partialText(v.End)}
		case !v.End.IsZero():
			return []string{"VALID UNTIL " + partialText(v.End) + "Z"}
		}
		return nil
	}},
	{lexer.KindMwoDesignator, func(s *model.SIGMET, _ *Context) []string {
		if s.MWO == "" {
			return nil
		}
		return []string{s.MWO + "-"}
	}},
}

var sigmetFIR = []Reconstructor[*model.SIGMET]{
	{lexer.KindFirDesignator, func(s *model.SIGMET, _ *Context) []string { return one(s.FIR) }},
	{lexer.KindFirName, func(s *model.SIGMET, _ *Context) []string { return strings.Fields(s.FIRName) }},
	{lexer.KindFirType, func(s *model.SIGMET, _ *Context) []string { return one(s.FIRType) }},
	{lexer.KindCancellation, func(s *model.SIGMET, _ *Context) []string {
		if !s.Cancelled {
			return nil
		}
		v := s.CancelledValidity
		return []string{fmt.Sprintf("CNL %s %s %s/%s", s.Family(), s.CancelledSequence,
			partialText(v.Start), partialText(v.End))}
	}},
	{lexer.KindPhenomenon, func(s *model.SIGMET, _ *Context) []string {
		if s.Cancelled {
			return nil
		}
		return one(s.Phenomenon)
	}},
}

var sigmetAnalysis = []Reconstructor[*model.SigmetAnalysis]{
	{lexer.KindObsOrForecast, func(a *model.SigmetAnalysis, _ *Context) []string {
		s := "OBS"
		if a.Forecast {
			s = "FCST"
		}
		if !a.Time.IsZero() {
			s += " AT " + partialText(a.Time) + "Z"
		}
		return []string{s}
	}},
}

var sigmetPhenomenon = []Reconstructor[*model.SigmetAnalysis]{
	{lexer.KindLevel, func(a *model.SigmetAnalysis, _ *Context) []string { return one(levelText(a.Level)) }},
	{lexer.KindMovement, func(a *model.SigmetAnalysis, _ *Context) []string {
		m := a.Movement
		switch {
		case m == nil:
			return nil
		case m.Stationary:
			return []string{"STNR"}
		}
		return []string{fmt.Sprintf("MOV %s %d%s", m.Direction, m.Speed, m.Unit)}
	}},
	{lexer.KindIntensityChange, func(a *model.SigmetAnalysis, _ *Context) []string { return one(a.IntensityChange) }},
}

// area renders an entire area, a WI polygon or lines joined by AND.
func area(w *writer, a model.Area) {
	switch {
	case a.Entire != "":
		w.emit(lexer.KindEntireArea, "ENTIRE "+a.Entire)
	case len(a.Polygon) > 0:
		w.emit(lexer.KindPolygonStart, "WI")
		polygon(w, a.Polygon, true)
	default:
		for i, line := range a.Lines {
			if i > 0 {
				w.emit(lexer.KindConjunction, "AND")
			}
			coord := patterns.FormatLongitude(line.Coordinate, true)
			if line.Latitude {
				coord = patterns.FormatLatitude(line.Coordinate, true)
			}
			w.emit(lexer.KindAreaLine, line.Direction+" OF "+coord)
		}
	}
}

// polygon renders points separated by dashes.
func polygon(w *writer, ring orb.Ring, minutes bool) {
	for i, p := range ring {
		if i > 0 {
			w.emit(lexer.KindDash, "-")
		}
		w.emit(lexer.KindLatLon, latLon(p.Lat(), p.Lon(), minutes))
	}
}

// serializeSIGMET renders a SIGMET or AIRMET. The header is on its own
// line.
func serializeSIGMET(w *writer, s *model.SIGMET) {
	run(w, s, sigmetHeader)
	w.newline()
	run(w, s, sigmetFIR)

	if a := s.Analysis; a != nil && !s.Cancelled {
		run(w, a, sigmetAnalysis)
		area(w, a.Area)
		run(w, a, sigmetPhenomenon)
	}
	if fp := s.ForecastPosition; fp != nil && !s.Cancelled {
		w.emit(lexer.KindObsOrForecast, "FCST AT "+partialText(fp.Time)+"Z")
		area(w, fp.Area)
	}
	remarks(w, s.Remarks)
	w.end()
}
