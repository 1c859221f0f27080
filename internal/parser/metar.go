package parser

import (
	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

// Kinds a METAR may contain at most once.
var metarOnce = []lexer.Kind{
	lexer.KindAerodromeDesignator, lexer.KindIssueTime, lexer.KindCorrection, lexer.KindNil,
	lexer.KindAutomatedObservation, lexer.KindVariableWindDirection, lexer.KindAirDewpointTemperature,
	lexer.KindAirPressureQNH, lexer.KindRemarksStart,
}

// Kinds a correction indicator must precede.
var metarAfterCorrection = []lexer.Kind{lexer.KindAerodromeDesignator, lexer.KindIssueTime}

// METAR parses a METAR or SPECI. The family follows the first word.
func (p *Parser) METAR(tac string, hints conversion.Hints) conversion.Result[model.METAR] {
	family := conversion.FamilyMETAR
	if lexer.DetectFamily(tac) == conversion.FamilySPECI {
		family = conversion.FamilySPECI
	}
	pr, ok := p.prepare(tac, hints, family, family.String(), lexer.KindMetarStart, lexer.KindSpeciStart)
	if !ok || !pr.atMostOnce(hints, metarOnce...) {
		return conversion.Fail[model.METAR](pr.issues...)
	}
	seq := pr.seq

	b := model.NewMETARBuilder(seq.First().Kind == lexer.KindSpeciStart)
	b.GapsFromSkippedTokens = pr.gaps
	m := b.Draft()
	m.Translation = translation(tac, hints)

	if pos := seq.Find(lexer.KindCorrection); pos >= 0 && pr.inOrder(pos, metarAfterCorrection) {
		m.Correction = true
	}
	if tok := first(seq, b, lexer.KindAerodromeDesignator, model.ElementAerodrome); tok != nil {
		m.Aerodrome = tok.Str(lexer.SlotValue)
	}
	if tok := first(seq, b, lexer.KindIssueTime, model.ElementIssueTime); tok != nil {
		m.IssueTime = startTime(tok)
	}
	m.Remarks = remarks(seq)

	if pos := seq.Find(lexer.KindNil); pos >= 0 {
		m.Missing = true
		if extraAfter(seq, pos) {
			pr.issues.Add(conversion.IssueLogical, "Missing %s message contains extra tokens after NIL", family)
		}
		return p.finishMETAR(b, pr, hints)
	}
	m.Automated = seq.Has(lexer.KindAutomatedObservation)

	parts := seq.SplitBy(lexer.KindTrendChangeIndicator, lexer.KindRemarksStart)
	extractConditions(pr, parts[0], &m.Observed, conditionRules{
		name:                  "observation",
		directionalVisibility: true,
		order:                 observationOrder,
		other:                 observationExtras(pr, m),
	})

	for _, part := range parts[1:] {
		indicator := part.First()
		if indicator.Kind != lexer.KindTrendChangeIndicator || indicator.Status != lexer.StatusOK {
			continue
		}
		p.metarTrend(pr, m, part)
	}
	if m.NoSignificantChanges && len(m.Trends) > 0 {
		pr.issues.Add(conversion.IssueLogical, "NOSIG cannot be combined with trend forecasts")
	}
	return p.finishMETAR(b, pr, hints)
}

func (p *Parser) finishMETAR(b *model.METARBuilder, pr *prepared, hints conversion.Hints) conversion.Result[model.METAR] {
	m, issues := b.Finalize()
	pr.issues.Append(issues...)
	return finish(m, pr.issues, hints)
}

// observationExtras handles the groups only found in observations.
func observationExtras(pr *prepared, m *model.METAR) func(int, *lexer.Token) bool {
	return func(_ int, tok *lexer.Token) bool {
		switch tok.Kind {
		case lexer.KindHorizontalVisibility:
			// A second, directional visibility is the minimum visibility.
			if m.Observed.Visibility == nil || !tok.Has(lexer.SlotDirection) {
				return false
			}
			if m.MinimumVisibility != nil {
				pr.issues.Add(conversion.IssueSyntax, "More than one minimum visibility: '%s'", tok.Text)
				return true
			}
			m.MinimumVisibility = visibility(tok)

		case lexer.KindVariableWindDirection:
			from, _ := tok.Int(lexer.SlotDirection)
			to, _ := tok.Int(lexer.SlotDirection2)
			m.WindVariation = &model.WindVariation{From: from, To: to}

		case lexer.KindRunwayVisualRange:
			rvr := model.RunwayVisualRange{
				Runway:   tok.Str(lexer.SlotRunway),
				Operator: operator(tok.Str(lexer.SlotOperator)),
				Tendency: tok.Str(lexer.SlotTendency),
			}
			rvr.Distance, _ = tok.Int(lexer.SlotValue)
			m.RunwayVisualRanges = append(m.RunwayVisualRanges, rvr)

		case lexer.KindAirDewpointTemperature:
			air, _ := tok.Float(lexer.SlotValue)
			dew, _ := tok.Float(lexer.SlotValue2)
			m.Temperatures = &model.AirTemperatures{Air: air, Dewpoint: dew}

		case lexer.KindAirPressureQNH:
			v, _ := tok.Float(lexer.SlotValue)
			m.Pressure = &model.Pressure{Value: v, Unit: tok.Str(lexer.SlotUnit)}

		case lexer.KindRecentWeather:
			m.RecentWeather = append(m.RecentWeather, tok.Str(lexer.SlotValue))

		case lexer.KindWindShear:
			if m.WindShear == nil {
				m.WindShear = &model.WindShear{}
			}
			if tok.Str(lexer.SlotType) == "ALL" {
				m.WindShear.AllRunways = true
			} else {
				m.WindShear.Runways = append(m.WindShear.Runways, tok.Str(lexer.SlotRunway))
			}

		default:
			return false
		}
		return true
	}
}

// metarTrend extracts NOSIG or one BECMG/TEMPO trend.
func (p *Parser) metarTrend(pr *prepared, m *model.METAR, part *lexer.Sequence) {
	indicator := part.First()
	kind := indicator.Str(lexer.SlotType)
	if kind == "NOSIG" {
		m.NoSignificantChanges = true
		if extraAfter(part, 0) {
			pr.issues.Add(conversion.IssueLogical, "NOSIG cannot be followed by trend content")
		}
		return
	}

	trend := model.METARTrend{Type: model.ChangeType(kind)}
	content := 1
	for ; content < part.Len(); content++ {
		tok := part.Token(content)
		if tok.Kind != lexer.KindTrendTimeGroup {
			break
		}
		if tok.Status != lexer.StatusOK {
			continue
		}
		at := partial(tok, noSlot, lexer.SlotHour1, lexer.SlotMinute1)
		switch tok.Str(lexer.SlotType) {
		case "FM":
			trend.From = at
		case "TL":
			trend.Until = at
		case "AT":
			trend.At = at
		}
	}

	_, found := extractConditions(pr, part.Sub(content, part.Len()), &trend.Conditions, conditionRules{
		name:     "trend",
		allowNSW: true,
		order:    changeOrder,
	})
	if !found {
		pr.issues.Add(conversion.IssueSyntax, "Missing trend content for '%s'", indicator.Text)
	}
	m.Trends = append(m.Trends, trend)
}
