package model

import (
	"fmt"

	"tac_converter/internal/conversion"
)

// draft holds the state shared by all builders: which elements the parser
// already reported on, and how missing elements are classified.
type draft struct {
	reported map[string]bool

	// GapsFromSkippedTokens is set when unrecognised tokens were skipped.
	// Missing mandatory elements are then reported as SYNTAX_ERROR since
	// the skipped token most likely was the element.
	GapsFromSkippedTokens bool
}

// Reported marks an element as already handled by the parser so that
// Finalize does not report it again.
func (d *draft) Reported(element string) {
	if d.reported == nil {
		d.reported = make(map[string]bool)
	}
	d.reported[element] = true
}

func (d *draft) skip(element string) bool {
	return d.reported[element]
}

func (d *draft) missingType() conversion.IssueType {
	if d.GapsFromSkippedTokens {
		return conversion.IssueSyntaxError
	}
	return conversion.IssueMissingData
}

// Element names understood by Reported.
const (
	ElementAerodrome = "aerodrome"
	ElementIssueTime = "issue time"
	ElementValidity  = "validity"
	ElementBase      = "base forecast"
)

// ElementChange names the i:th change forecast or trend.
func ElementChange(i int) string {
	return fmt.Sprintf("change %d", i)
}

// TAFBuilder collects a TAF and checks it once complete.
type TAFBuilder struct {
	draft
	msg TAF
}

// NewTAFBuilder starts a TAF with NORMAL status.
func NewTAFBuilder() *TAFBuilder {
	return &TAFBuilder{msg: TAF{Status: TAFNormal}}
}

// Draft gives mutable access to the message under construction.
func (b *TAFBuilder) Draft() *TAF {
	return &b.msg
}

// Finalize checks mandatory elements, back-fills FM end times and returns
// the message.
func (b *TAFBuilder) Finalize() (*TAF, conversion.Issues) {
	var issues conversion.Issues
	t := &b.msg
	missing := b.missingType()

	if t.Aerodrome == "" && !b.skip(ElementAerodrome) {
		issues.Add(conversion.IssueMissingData, "Aerodrome designator not given in TAF")
	}
	if t.IssueTime.IsZero() && !b.skip(ElementIssueTime) {
		issues.Add(missing, "Missing issue time")
	}
	if t.Status == TAFMissing {
		return t, issues
	}
	if t.Validity.Start.IsZero() && !b.skip(ElementValidity) {
		issues.Add(conversion.IssueMissingData, "Missing validity")
	}
	if t.Status == TAFCancellation {
		return t, issues
	}

	if base := t.BaseForecast; base != nil && !b.skip(ElementBase) {
		if base.SurfaceWind == nil {
			issues.Add(missing, "Surface wind is missing from TAF base forecast")
		}
		if !base.CAVOK && base.Visibility == nil {
			issues.Add(missing, "Visibility or CAVOK is missing from TAF base forecast")
		}
		if !base.CAVOK && base.Clouds == nil {
			issues.Add(missing, "Cloud or CAVOK is missing from TAF base forecast")
		}
	} else if base == nil && !b.skip(ElementBase) {
		issues.Add(conversion.IssueMissingData, "Missing TAF base forecast")
	}

	hasFM := false
	for i, change := range t.ChangeForecasts {
		if change.Type != ChangeFrom {
			continue
		}
		hasFM = true
		if b.skip(ElementChange(i)) {
			continue
		}
		if change.SurfaceWind == nil {
			issues.Add(missing, "Surface wind is missing from FM change forecast %d", i+1)
		}
		if !change.CAVOK && (change.Visibility == nil || change.Clouds == nil) {
			issues.Add(missing, "Visibility and cloud or CAVOK missing from FM change forecast %d", i+1)
		}
	}

	if hasFM {
		issues.Append(b.backfillFromEnds()...)
	}
	return t, issues
}

// backfillFromEnds sets the end of each FM forecast to the start of the
// next FM forecast, and the last one to the end of the validity. FM
// forecasts that do not follow each other in time are reported, the ends
// still follow the written order.
func (b *TAFBuilder) backfillFromEnds() conversion.Issues {
	t := &b.msg
	if t.Validity.End.IsZero() {
		return conversion.Issues{conversion.NewIssue(conversion.IssueMissingData,
			"Validity time period must be set before amending FM end times")}
	}
	var issues conversion.Issues
	last := -1
	for i := range t.ChangeForecasts {
		if t.ChangeForecasts[i].Type != ChangeFrom {
			continue
		}
		if last >= 0 {
			prev, next := t.ChangeForecasts[last].Period.Start, t.ChangeForecasts[i].Period.Start
			if !prev.Before(next) && !monthWrap(prev, next) {
				issues.Add(conversion.IssueLogical,
					"FM change forecast %d starting at %s does not start after the previous one at %s",
					i+1, next, prev)
			}
			t.ChangeForecasts[last].Period.End = next
		}
		last = i
	}
	t.ChangeForecasts[last].Period.End = t.Validity.End
	return issues
}

// monthWrap reports whether next falls in the month after prev, as when a
// forecast starting on the 31st continues on the 1st.
func monthWrap(prev, next PartialDateTime) bool {
	return prev.Has(FieldDay) && next.Has(FieldDay) && prev.Day >= 28 && next.Day <= 2
}

// METARBuilder collects a METAR or SPECI.
type METARBuilder struct {
	draft
	msg METAR
}

// NewMETARBuilder starts an observation; special selects SPECI.
func NewMETARBuilder(special bool) *METARBuilder {
	return &METARBuilder{msg: METAR{Special: special}}
}

// Draft gives mutable access to the message under construction.
func (b *METARBuilder) Draft() *METAR {
	return &b.msg
}

// Finalize checks mandatory elements.
func (b *METARBuilder) Finalize() (*METAR, conversion.Issues) {
	var issues conversion.Issues
	m := &b.msg
	missing := b.missingType()
	name := m.Family().String()

	if m.Aerodrome == "" && !b.skip(ElementAerodrome) {
		issues.Add(conversion.IssueMissingData, "Aerodrome designator not given in %s", name)
	}
	if m.IssueTime.IsZero() && !b.skip(ElementIssueTime) {
		issues.Add(missing, "Missing issue time")
	}
	if m.Missing {
		return m, issues
	}
	obs := m.Observed
	if obs.SurfaceWind == nil {
		issues.Add(missing, "Missing surface wind")
	}
	if !obs.CAVOK && obs.Visibility == nil {
		issues.Add(missing, "Missing visibility or CAVOK")
	}
	if m.Temperatures == nil {
		issues.Add(missing, "Missing air temperature and dew point")
	}
	if m.Pressure == nil {
		issues.Add(missing, "Missing air pressure (QNH)")
	}
	return m, issues
}

// SIGMETBuilder collects a SIGMET or AIRMET.
type SIGMETBuilder struct {
	draft
	msg SIGMET
}

// NewSIGMETBuilder starts a SIGMET; airmet selects AIRMET.
func NewSIGMETBuilder(airmet bool) *SIGMETBuilder {
	return &SIGMETBuilder{msg: SIGMET{Airmet: airmet}}
}

// Draft gives mutable access to the message under construction.
func (b *SIGMETBuilder) Draft() *SIGMET {
	return &b.msg
}

// Finalize checks mandatory elements.
func (b *SIGMETBuilder) Finalize() (*SIGMET, conversion.Issues) {
	var issues conversion.Issues
	s := &b.msg
	missing := b.missingType()

	if s.IssuingUnit == "" {
		issues.Add(missing, "Missing issuing air traffic services unit")
	}
	if s.Sequence == "" {
		issues.Add(missing, "Missing sequence number")
	}
	if s.Validity.End.IsZero() && !b.skip(ElementValidity) {
		issues.Add(missing, "Missing validity")
	}
	if s.MWO == "" {
		issues.Add(missing, "Missing meteorological watch office")
	}
	if s.FIR == "" {
		issues.Add(missing, "Missing FIR designator")
	}
	if s.Cancelled {
		return s, issues
	}
	if s.Phenomenon == "" {
		issues.Add(missing, "Missing phenomenon")
	}
	if s.Analysis == nil {
		issues.Add(missing, "Missing observation or forecast indicator")
	} else if s.Analysis.Area.IsEmpty() {
		issues.Add(missing, "Missing phenomenon location")
	}
	return s, issues
}

// SWXBuilder collects a space weather advisory.
type SWXBuilder struct {
	draft
	msg SpaceWeatherAdvisory
}

// NewSWXBuilder starts an advisory.
func NewSWXBuilder() *SWXBuilder {
	return &SWXBuilder{}
}

// Draft gives mutable access to the message under construction.
func (b *SWXBuilder) Draft() *SpaceWeatherAdvisory {
	return &b.msg
}

// Finalize checks mandatory elements.
func (b *SWXBuilder) Finalize() (*SpaceWeatherAdvisory, conversion.Issues) {
	var issues conversion.Issues
	a := &b.msg
	missing := b.missingType()

	if a.IssueTime.IsZero() && !b.skip(ElementIssueTime) {
		issues.Add(missing, "Missing issue time (DTG)")
	}
	if a.IssuingCentre == "" {
		issues.Add(missing, "Missing issuing space weather centre")
	}
	if a.AdvisoryNumber.IsZero() {
		issues.Add(missing, "Missing advisory number")
	}
	if len(a.Effects) == 0 {
		issues.Add(missing, "Missing space weather effect")
	}
	if len(a.Analyses) == 0 {
		issues.Add(missing, "Missing observed or forecast space weather")
	}
	if a.NextAdvisory.Type == "" {
		issues.Add(missing, "Missing next advisory")
	}
	return a, issues
}
