package parser

import (
	"slices"

	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

// Kinds a TAF may contain at most once.
var tafOnce = []lexer.Kind{
	lexer.KindAerodromeDesignator, lexer.KindIssueTime, lexer.KindValidTime, lexer.KindCorrection,
	lexer.KindAmendment, lexer.KindCancellation, lexer.KindNil, lexer.KindMinTemperature,
	lexer.KindMaxTemperature, lexer.KindRemarksStart,
}

// tafBody lists the kinds of the forecast itself. Every header element
// must precede them.
var tafBody = []lexer.Kind{
	lexer.KindSurfaceWind, lexer.KindCAVOK, lexer.KindHorizontalVisibility, lexer.KindWeather,
	lexer.KindCloud, lexer.KindMinTemperature, lexer.KindMaxTemperature,
	lexer.KindForecastChangeIndicator, lexer.KindRemarksStart,
}

// Kinds each header element must precede.
var (
	tafAfterCancellation = tafBody
	tafAfterValidity     = slices.Concat([]lexer.Kind{lexer.KindCancellation}, tafBody)
	tafAfterNil          = slices.Concat([]lexer.Kind{lexer.KindValidTime, lexer.KindCancellation}, tafBody)
	tafAfterIssueTime    = slices.Concat([]lexer.Kind{lexer.KindNil}, tafAfterNil)
	tafAfterAerodrome    = slices.Concat([]lexer.Kind{lexer.KindIssueTime}, tafAfterIssueTime)
	tafAfterStatus       = slices.Concat([]lexer.Kind{lexer.KindAerodromeDesignator}, tafAfterAerodrome)
)

// changeContent lists the kinds a change forecast time group must precede.
var changeContent = []lexer.Kind{
	lexer.KindSurfaceWind, lexer.KindCAVOK, lexer.KindHorizontalVisibility, lexer.KindWeather,
	lexer.KindNoSignificantWeather, lexer.KindCloud,
}

// TAF parses an aerodrome forecast.
func (p *Parser) TAF(tac string, hints conversion.Hints) conversion.Result[model.TAF] {
	pr, ok := p.prepare(tac, hints, conversion.FamilyTAF, "TAF", lexer.KindTafStart)
	if !ok || !pr.atMostOnce(hints, tafOnce...) {
		return conversion.Fail[model.TAF](pr.issues...)
	}
	seq := pr.seq

	b := model.NewTAFBuilder()
	b.GapsFromSkippedTokens = pr.gaps
	taf := b.Draft()
	taf.Translation = translation(tac, hints)

	if pos := seq.Find(lexer.KindCorrection); pos >= 0 && pr.inOrder(pos, tafAfterStatus) {
		taf.Status = model.TAFCorrection
	}
	if pos := seq.Find(lexer.KindAmendment); pos >= 0 && pr.inOrder(pos, tafAfterStatus) {
		taf.Status = model.TAFAmendment
	}

	if tok := first(seq, b, lexer.KindAerodromeDesignator, model.ElementAerodrome); tok != nil {
		if pr.inOrder(tok.Index, tafAfterAerodrome) {
			taf.Aerodrome = tok.Str(lexer.SlotValue)
		} else {
			b.Reported(model.ElementAerodrome)
		}
	}
	if tok := first(seq, b, lexer.KindIssueTime, model.ElementIssueTime); tok != nil {
		if pr.inOrder(tok.Index, tafAfterIssueTime) {
			taf.IssueTime = startTime(tok)
		} else {
			b.Reported(model.ElementIssueTime)
		}
	}
	taf.Remarks = remarks(seq)

	if pos := seq.Find(lexer.KindNil); pos >= 0 && pr.inOrder(pos, tafAfterNil) {
		taf.Status = model.TAFMissing
		if extraAfter(seq, pos) {
			pr.issues.Add(conversion.IssueLogical, "Missing TAF message contains extra tokens after NIL")
		}
		return p.finishTAF(b, pr, hints)
	}

	if tok := first(seq, b, lexer.KindValidTime, model.ElementValidity); tok != nil {
		switch {
		case !pr.inOrder(tok.Index, tafAfterValidity):
			b.Reported(model.ElementValidity)
		case !tok.Has(lexer.SlotDay1) || !tok.Has(lexer.SlotHour1) || !tok.Has(lexer.SlotHour2):
			pr.issues.Add(conversion.IssueMissingData, "Must have at least startDay, startHour and endHour of validity")
			b.Reported(model.ElementValidity)
		default:
			taf.Validity = model.Period{Start: startTime(tok), End: endTime(tok)}
		}
	}

	if pos := seq.Find(lexer.KindCancellation); pos >= 0 && pr.inOrder(pos, tafAfterCancellation) {
		taf.Status = model.TAFCancellation
		if extraAfter(seq, pos) {
			pr.issues.Add(conversion.IssueLogical, "Cancelled TAF message contains extra tokens after CNL")
		}
		return p.finishTAF(b, pr, hints)
	}

	parts := seq.SplitBy(lexer.KindForecastChangeIndicator, lexer.KindRemarksStart)
	p.tafBase(pr, b, parts[0])

	for _, part := range parts[1:] {
		if part.First().Kind != lexer.KindForecastChangeIndicator {
			continue
		}
		p.tafChange(pr, b, part)
	}
	return p.finishTAF(b, pr, hints)
}

func (p *Parser) finishTAF(b *model.TAFBuilder, pr *prepared, hints conversion.Hints) conversion.Result[model.TAF] {
	taf, issues := b.Finalize()
	pr.issues.Append(issues...)
	return finish(taf, pr.issues, hints)
}

// tafBase extracts the base forecast and the temperature pairs.
func (p *Parser) tafBase(pr *prepared, b *model.TAFBuilder, head *lexer.Sequence) {
	base := &model.TAFBaseForecast{}
	stop, found := extractConditions(pr, head, &base.Conditions, conditionRules{
		name:  "TAF base forecast",
		order: tafBaseOrder,
	})
	if stop < head.Len() {
		b.Reported(model.ElementBase)
	}

	var pending *lexer.Token
	for i := 0; i < stop; i++ {
		tok := head.Token(i)
		if tok.Status != lexer.StatusOK {
			continue
		}
		switch tok.Kind {
		case lexer.KindMaxTemperature:
			found = true
			if pending != nil {
				pr.issues.Add(conversion.IssueSyntax, "Missing min temperature pair for max temperature '%s'", pending.Text)
			}
			pending = tok
		case lexer.KindMinTemperature:
			found = true
			if pending == nil {
				pr.issues.Add(conversion.IssueSyntax, "Missing max temperature pair for min temperature '%s'", tok.Text)
				continue
			}
			maxValue, _ := pending.Float(lexer.SlotValue)
			minValue, _ := tok.Float(lexer.SlotValue)
			base.Temperatures = append(base.Temperatures, model.TemperaturePair{
				Max:     maxValue,
				MaxTime: partial(pending, lexer.SlotDay1, lexer.SlotHour1, noSlot),
				Min:     minValue,
				MinTime: partial(tok, lexer.SlotDay1, lexer.SlotHour1, noSlot),
			})
			pending = nil
		}
	}
	if pending != nil {
		pr.issues.Add(conversion.IssueSyntax, "Missing min temperature pair for max temperature '%s'", pending.Text)
	}

	if found || stop < head.Len() {
		b.Draft().BaseForecast = base
	}
}

// tafChange extracts one change forecast starting with its indicator.
func (p *Parser) tafChange(pr *prepared, b *model.TAFBuilder, part *lexer.Sequence) {
	taf := b.Draft()
	indicator := part.First()
	if indicator.Status != lexer.StatusOK {
		return
	}
	change := model.TAFChangeForecast{Type: model.ChangeType(indicator.Str(lexer.SlotType))}

	content := part.Sub(1, part.Len())
	if change.Type == model.ChangeFrom {
		change.Period.Start = startTime(indicator)
	} else {
		pos := content.Find(lexer.KindChangeForecastTimeGroup)
		if pos < 0 {
			pr.issues.Add(conversion.IssueSyntax, "Missing time group for change forecast '%s'", indicator.Text)
			return
		}
		group := content.Token(pos)
		if group.Status != lexer.StatusOK {
			return
		}
		if issue := content.CheckBefore(pos, changeContent...); issue != nil {
			pr.issues.Append(*issue)
		} else {
			change.Period = model.Period{Start: startTime(group), End: endTime(group)}
		}
	}

	_, found := extractConditions(pr, content, &change.Conditions, conditionRules{
		name:     "change forecast",
		allowNSW: true,
		order:    changeOrder,
	})
	if !found {
		pr.issues.Add(conversion.IssueSyntax, "Missing change group content for '%s'", indicator.Text)
		b.Reported(model.ElementChange(len(taf.ChangeForecasts)))
	}
	taf.ChangeForecasts = append(taf.ChangeForecasts, change)
}
