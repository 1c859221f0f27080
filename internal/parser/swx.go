package parser

import (
	"time"

	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

var swxOnce = []lexer.Kind{
	lexer.KindStatusLabel, lexer.KindDtgLabel, lexer.KindSwxCentreLabel, lexer.KindAdvisoryNumberLabel,
	lexer.KindReplaceAdvisoryNumberLabel, lexer.KindSwxEffectLabel, lexer.KindRemarksStart,
	lexer.KindNextAdvisoryLabel,
}

var swxLabels = []lexer.Kind{
	lexer.KindStatusLabel, lexer.KindDtgLabel, lexer.KindSwxCentreLabel, lexer.KindAdvisoryNumberLabel,
	lexer.KindReplaceAdvisoryNumberLabel, lexer.KindSwxEffectLabel, lexer.KindSwxPhenomenaLabel,
	lexer.KindRemarksStart, lexer.KindNextAdvisoryLabel,
}

// SWX parses a space weather advisory.
func (p *Parser) SWX(tac string, hints conversion.Hints) conversion.Result[model.SpaceWeatherAdvisory] {
	pr, ok := p.prepare(tac, hints, conversion.FamilySWX, "SWX", lexer.KindSwxStart)
	if !ok || !pr.atMostOnce(hints, swxOnce...) {
		return conversion.Fail[model.SpaceWeatherAdvisory](pr.issues...)
	}

	b := model.NewSWXBuilder()
	b.GapsFromSkippedTokens = pr.gaps
	a := b.Draft()
	a.Translation = translation(tac, hints)

	for _, part := range pr.seq.SplitBy(swxLabels...) {
		lbl := part.First()
		if lbl == nil || lbl.Status != lexer.StatusOK {
			continue
		}
		value := part.Token(1)
		if value != nil && value.Status != lexer.StatusOK {
			value = nil
		}

		switch lbl.Kind {
		case lexer.KindStatusLabel:
			if value != nil && value.Kind == lexer.KindAdvisoryStatus {
				a.Status = value.Str(lexer.SlotValue)
			}
		case lexer.KindDtgLabel:
			if value != nil && value.Kind == lexer.KindIssueTime {
				a.IssueTime = dateTime(value)
			} else if value == nil && part.Len() > 1 {
				b.Reported(model.ElementIssueTime)
			}
		case lexer.KindSwxCentreLabel:
			if value != nil && value.Kind == lexer.KindSwxCentre {
				a.IssuingCentre = value.Str(lexer.SlotValue)
			}
		case lexer.KindAdvisoryNumberLabel:
			if value != nil && value.Kind == lexer.KindAdvisoryNumber {
				a.AdvisoryNumber = advisoryNumber(value)
			}
		case lexer.KindReplaceAdvisoryNumberLabel:
			if value != nil && value.Kind == lexer.KindReplaceAdvisoryNumber {
				n := advisoryNumber(value)
				a.ReplacesAdvisory = &n
			}
		case lexer.KindSwxEffectLabel:
			a.Effects = swxEffects(pr, part)
		case lexer.KindSwxPhenomenaLabel:
			a.Analyses = append(a.Analyses, swxAnalysis(pr, part))
		case lexer.KindRemarksStart:
			a.Remarks = remarks(part)
		case lexer.KindNextAdvisoryLabel:
			if value != nil && value.Kind == lexer.KindNextAdvisory {
				a.NextAdvisory = model.NextAdvisory{Type: model.NextAdvisoryType(value.Str(lexer.SlotType))}
				if value.Has(lexer.SlotYear) {
					a.NextAdvisory.Time = dateTime(value)
				}
			}
		}
	}

	msg, issues := b.Finalize()
	pr.issues.Append(issues...)
	return finish(msg, pr.issues, hints)
}

// dateTime builds a UTC time from the year, month, day, hour and minute
// slots.
func dateTime(tok *lexer.Token) time.Time {
	year, _ := tok.Int(lexer.SlotYear)
	month, _ := tok.Int(lexer.SlotMonth)
	day, _ := tok.Int(lexer.SlotDay1)
	hour, _ := tok.Int(lexer.SlotHour1)
	minute, _ := tok.Int(lexer.SlotMinute1)
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
}

func advisoryNumber(tok *lexer.Token) model.AdvisoryNumber {
	year, _ := tok.Int(lexer.SlotYear)
	serial, _ := tok.Int(lexer.SlotValue)
	return model.AdvisoryNumber{Year: year, Serial: serial}
}

// swxEffects reads effects joined by AND.
func swxEffects(pr *prepared, part *lexer.Sequence) []string {
	var effects []string
	expectEffect := true
	for i := 1; i < part.Len(); i++ {
		tok := part.Token(i)
		switch tok.Kind {
		case lexer.KindSwxEffect:
			if !expectEffect {
				pr.issues.Add(conversion.IssueSyntax, "Space weather effects must be joined by AND: '%s'", tok.Text)
			}
			if tok.Status == lexer.StatusOK {
				effects = append(effects, tok.Str(lexer.SlotValue))
			}
			expectEffect = false
		case lexer.KindConjunction:
			expectEffect = true
		}
	}
	return effects
}

func swxAnalysis(pr *prepared, part *lexer.Sequence) model.SWXAnalysis {
	lbl := part.First()
	an := model.SWXAnalysis{Forecast: lbl.Str(lexer.SlotType) == "FCST"}
	an.HourOffset, _ = lbl.Int(lexer.SlotValue)

	for i := 1; i < part.Len(); i++ {
		tok := part.Token(i)
		if tok.Status != lexer.StatusOK {
			continue
		}
		switch tok.Kind {
		case lexer.KindSwxTimeGroup:
			an.Time = startTime(tok)
		case lexer.KindSwxNotExpected:
			an.NoPhenomenaExpected = true
		case lexer.KindSwxNotAvailable:
			an.NoInformationAvailable = true
		case lexer.KindSwxPresetLocation:
			an.Regions = append(an.Regions, tok.Str(lexer.SlotValue))
		case lexer.KindLongitudeLimit:
			from, _ := tok.Float(lexer.SlotLongitude)
			next, after := part.Token(i+1), part.Token(i+2)
			if next == nil || next.Kind != lexer.KindDash || after == nil || after.Kind != lexer.KindLongitudeLimit {
				pr.issues.Add(conversion.IssueSyntax, "Longitude limits must be given as a pair: '%s'", tok.Text)
				continue
			}
			to, _ := after.Float(lexer.SlotLongitude)
			an.LongitudeBand = &model.LongitudeBand{From: from, To: to}
			i += 2
		case lexer.KindLatLon:
			ring, next := polygon(part, i)
			if len(ring) < 4 || !ring.Closed() {
				pr.issues.Add(conversion.IssueSyntax, "Polygon must have at least four points and be closed")
			}
			an.Polygon = ring
			i = next - 1
		case lexer.KindLevel:
			an.Level = level(tok)
		}
	}
	if an.Time.IsZero() {
		pr.issues.Add(conversion.IssueMissingData, "Missing time for %s", lbl.Text)
	}
	return an
}
