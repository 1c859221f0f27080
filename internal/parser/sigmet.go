package parser

import (
	"strings"

	"github.com/paulmach/orb"

	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

// Kinds a SIGMET may contain at most once.
var sigmetOnce = []lexer.Kind{
	lexer.KindSigmetStart, lexer.KindSequenceDescriptor, lexer.KindValidTime, lexer.KindMwoDesignator,
	lexer.KindFirDesignator, lexer.KindFirType, lexer.KindPhenomenon, lexer.KindCancellation,
	lexer.KindRemarksStart,
}

// SIGMET parses a SIGMET or AIRMET.
func (p *Parser) SIGMET(tac string, hints conversion.Hints) conversion.Result[model.SIGMET] {
	family := conversion.FamilySIGMET
	if lexer.DetectFamily(tac) == conversion.FamilyAIRMET {
		family = conversion.FamilyAIRMET
	}
	pr, ok := p.prepare(tac, hints, family, family.String(), lexer.KindAtsuDesignator)
	if ok {
		if start := pr.seq.Token(1); start == nil || start.Kind != lexer.KindSigmetStart {
			pr.issues.Add(conversion.IssueSyntax, "The input message is not recognized as %s", family)
			ok = false
		}
	}
	if !ok || !pr.atMostOnce(hints, sigmetOnce...) {
		return conversion.Fail[model.SIGMET](pr.issues...)
	}
	seq := pr.seq

	b := model.NewSIGMETBuilder(family == conversion.FamilyAIRMET)
	b.GapsFromSkippedTokens = pr.gaps
	s := b.Draft()
	s.Translation = translation(tac, hints)

	s.IssuingUnit = seq.First().Str(lexer.SlotValue)
	if tok := first(seq, b, lexer.KindSequenceDescriptor, ""); tok != nil {
		s.Sequence = tok.Str(lexer.SlotValue)
	}
	if tok := first(seq, b, lexer.KindValidTime, model.ElementValidity); tok != nil {
		s.Validity = model.Period{Start: startTime(tok), End: endTime(tok)}
	}
	if tok := first(seq, b, lexer.KindMwoDesignator, ""); tok != nil {
		s.MWO = tok.Str(lexer.SlotValue)
	}
	if tok := first(seq, b, lexer.KindFirDesignator, ""); tok != nil {
		s.FIR = tok.Str(lexer.SlotValue)
	}
	var name []string
	for _, pos := range seq.FindAll(lexer.KindFirName) {
		name = append(name, seq.Token(pos).Str(lexer.SlotValue))
	}
	s.FIRName = strings.Join(name, " ")
	if tok := first(seq, b, lexer.KindFirType, ""); tok != nil {
		s.FIRType = tok.Str(lexer.SlotValue)
	}
	s.Remarks = remarks(seq)

	if pos := seq.Find(lexer.KindCancellation); pos >= 0 {
		tok := seq.Token(pos)
		s.Cancelled = true
		if tok.Status == lexer.StatusOK {
			s.CancelledSequence = tok.Str(lexer.SlotValue)
			s.CancelledValidity = model.Period{Start: startTime(tok), End: endTime(tok)}
		}
		if extraAfter(seq, pos) {
			pr.issues.Add(conversion.IssueLogical, "Cancelled %s contains extra tokens after CNL", family)
		}
		return p.finishSIGMET(b, pr, hints)
	}

	if tok := first(seq, b, lexer.KindPhenomenon, ""); tok != nil {
		s.Phenomenon = tok.Str(lexer.SlotValue)
	}

	parts := seq.SplitBy(lexer.KindObsOrForecast)
	if len(parts) > 1 {
		s.Analysis = sigmetAnalysis(pr, parts[1])
	}
	if len(parts) > 2 {
		s.ForecastPosition = forecastPosition(pr, parts[2])
	}
	if len(parts) > 3 {
		pr.issues.Add(conversion.IssueSyntax, "More than one forecast position in %s", family)
	}
	return p.finishSIGMET(b, pr, hints)
}

func (p *Parser) finishSIGMET(b *model.SIGMETBuilder, pr *prepared, hints conversion.Hints) conversion.Result[model.SIGMET] {
	s, issues := b.Finalize()
	pr.issues.Append(issues...)
	return finish(s, pr.issues, hints)
}

func sigmetAnalysis(pr *prepared, part *lexer.Sequence) *model.SigmetAnalysis {
	indicator := part.First()
	a := &model.SigmetAnalysis{
		Forecast: indicator.Str(lexer.SlotType) == "FCST",
		Time:     partial(indicator, noSlot, lexer.SlotHour1, lexer.SlotMinute1),
		Area:     area(pr, part),
	}
	for i := 1; i < part.Len(); i++ {
		tok := part.Token(i)
		if tok.Status != lexer.StatusOK {
			continue
		}
		switch tok.Kind {
		case lexer.KindLevel:
			if a.Level != nil {
				pr.issues.Add(conversion.IssueSyntax, "More than one level: '%s'", tok.Text)
				continue
			}
			a.Level = level(tok)
		case lexer.KindMovement:
			a.Movement = &model.Movement{
				Stationary: tok.Str(lexer.SlotType) == "STNR",
				Direction:  tok.Str(lexer.SlotDirection),
				Unit:       tok.Str(lexer.SlotUnit),
			}
			a.Movement.Speed, _ = tok.Int(lexer.SlotValue)
		case lexer.KindIntensityChange:
			a.IntensityChange = tok.Str(lexer.SlotValue)
		}
	}
	return a
}

func forecastPosition(pr *prepared, part *lexer.Sequence) *model.SigmetForecastPosition {
	indicator := part.First()
	if indicator.Str(lexer.SlotType) != "FCST" || !indicator.Has(lexer.SlotHour1) {
		pr.issues.Add(conversion.IssueSyntax, "Forecast position must start with FCST AT: '%s'", indicator.Text)
	}
	return &model.SigmetForecastPosition{
		Time: partial(indicator, noSlot, lexer.SlotHour1, lexer.SlotMinute1),
		Area: area(pr, part),
	}
}

// area reads the phenomenon location from a part: the entire FIR, a WI
// polygon or lines joined by AND.
func area(pr *prepared, part *lexer.Sequence) model.Area {
	var a model.Area
	for i := 0; i < part.Len(); i++ {
		tok := part.Token(i)
		if tok.Status != lexer.StatusOK {
			continue
		}
		switch tok.Kind {
		case lexer.KindEntireArea:
			a.Entire = tok.Str(lexer.SlotValue)
		case lexer.KindPolygonStart:
			ring, next := polygon(part, i+1)
			if len(ring) < 4 || !ring.Closed() {
				pr.issues.Add(conversion.IssueSyntax, "Polygon must have at least four points and be closed")
			}
			a.Polygon = ring
			i = next - 1
		case lexer.KindAreaLine:
			line := model.AreaLine{Direction: tok.Str(lexer.SlotDirection)}
			if v, ok := tok.Float(lexer.SlotLatitude); ok {
				line.Coordinate, line.Latitude = v, true
			} else {
				line.Coordinate, _ = tok.Float(lexer.SlotLongitude)
			}
			a.Lines = append(a.Lines, line)
		}
	}
	return a
}

// polygon reads "lat lon - lat lon - ..." from position i. It returns the
// ring and the position after it.
func polygon(part *lexer.Sequence, i int) (orb.Ring, int) {
	var ring orb.Ring
	for i < part.Len() {
		tok := part.Token(i)
		if tok.Kind != lexer.KindLatLon || tok.Status != lexer.StatusOK {
			break
		}
		lat, _ := tok.Float(lexer.SlotLatitude)
		lon, _ := tok.Float(lexer.SlotLongitude)
		ring = append(ring, orb.Point{lon, lat})
		i++
		if next := part.Token(i); next == nil || next.Kind != lexer.KindDash {
			break
		}
		i++
	}
	return ring, i
}

// level converts a LEVEL token. A single level is stored as the lower
// bound.
func level(tok *lexer.Token) *model.Level {
	l := &model.Level{Modifier: tok.Str(lexer.SlotType)}
	if tok.Str(lexer.SlotUnit) == "SFC" {
		l.Surface = true
	} else if v, ok := tok.Int(lexer.SlotValue); ok {
		l.Lower = &model.Altitude{Value: v, Unit: tok.Str(lexer.SlotUnit)}
	}
	if v, ok := tok.Int(lexer.SlotValue2); ok {
		l.Upper = &model.Altitude{Value: v, Unit: tok.Str(lexer.SlotUnit2)}
	}
	return l
}
