package reconstruct

import (
	"fmt"

	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
	"tac_converter/internal/patterns"
)

const swxTimeLayout = "20060102/1504Z"

var swxAnalysis = []Reconstructor[*model.SWXAnalysis]{
	{lexer.KindSwxTimeGroup, func(a *model.SWXAnalysis, _ *Context) []string {
		if a.Time.IsZero() {
			return nil
		}
		return []string{fmt.Sprintf("%02d/%02d%02dZ", a.Time.Day, a.Time.Hour, a.Time.Minute)}
	}},
	{lexer.KindSwxNotExpected, func(a *model.SWXAnalysis, _ *Context) []string {
		return when(a.NoPhenomenaExpected, "NO SWX EXP")
	}},
	{lexer.KindSwxNotAvailable, func(a *model.SWXAnalysis, _ *Context) []string {
		return when(a.NoInformationAvailable, "NOT AVBL")
	}},
	{lexer.KindSwxPresetLocation, func(a *model.SWXAnalysis, _ *Context) []string { return a.Regions }},
}

// serializeSWX renders a space weather advisory with one label per line.
func serializeSWX(w *writer, a *model.SpaceWeatherAdvisory) {
	w.emit(lexer.KindSwxStart, "SWX ADVISORY")

	if a.Status != "" {
		w.label(lexer.KindStatusLabel, "STATUS:")
		w.emit(lexer.KindAdvisoryStatus, a.Status)
	}
	w.label(lexer.KindDtgLabel, "DTG:")
	if !a.IssueTime.IsZero() {
		w.emit(lexer.KindIssueTime, a.IssueTime.UTC().Format(swxTimeLayout))
	}
	w.label(lexer.KindSwxCentreLabel, "SWXC:")
	w.emit(lexer.KindSwxCentre, a.IssuingCentre)
	w.label(lexer.KindAdvisoryNumberLabel, "ADVISORY NR:")
	w.emit(lexer.KindAdvisoryNumber, advisoryNumberText(a.AdvisoryNumber))
	if a.ReplacesAdvisory != nil {
		w.label(lexer.KindReplaceAdvisoryNumberLabel, "NR RPLC:")
		w.emit(lexer.KindReplaceAdvisoryNumber, advisoryNumberText(*a.ReplacesAdvisory))
	}

	w.label(lexer.KindSwxEffectLabel, "SWX EFFECT:")
	for i, effect := range a.Effects {
		if i > 0 {
			w.emit(lexer.KindConjunction, "AND")
		}
		w.emit(lexer.KindSwxEffect, effect)
	}

	for i := range a.Analyses {
		an := &a.Analyses[i]
		if an.Forecast {
			w.label(lexer.KindSwxPhenomenaLabel, fmt.Sprintf("FCST SWX +%d HR:", an.HourOffset))
		} else {
			w.label(lexer.KindSwxPhenomenaLabel, "OBS SWX:")
		}
		run(w, an, swxAnalysis)
		if band := an.LongitudeBand; band != nil {
			w.emit(lexer.KindLongitudeLimit, patterns.FormatLongitude(band.From, true))
			w.emit(lexer.KindDash, "-")
			w.emit(lexer.KindLongitudeLimit, patterns.FormatLongitude(band.To, true))
		}
		if len(an.Polygon) > 0 {
			polygon(w, an.Polygon, false)
		}
		w.emit(lexer.KindLevel, levelText(an.Level))
	}

	if len(a.Remarks) > 0 {
		w.label(lexer.KindRemarksStart, "RMK:")
		remarkWords(w, a.Remarks)
	}

	w.label(lexer.KindNextAdvisoryLabel, "NXT ADVISORY:")
	w.emit(lexer.KindNextAdvisory, nextAdvisoryText(a.NextAdvisory))
	w.end()
}

func advisoryNumberText(n model.AdvisoryNumber) string {
	if n.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d/%d", n.Year, n.Serial)
}

func nextAdvisoryText(n model.NextAdvisory) string {
	switch n.Type {
	case model.NextAdvisoryNone:
		return "NO FURTHER ADVISORIES"
	case model.NextAdvisoryBy:
		return "WILL BE ISSUED BY " + n.Time.UTC().Format(swxTimeLayout)
	case model.NextAdvisoryAt:
		return n.Time.UTC().Format(swxTimeLayout)
	}
	return ""
}
