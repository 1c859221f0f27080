package lexer

import (
	"strings"

	"tac_converter/internal/patterns"
)

func classifyFullPeriod(m *patterns.Match, t *Token) {
	setTime(t, m, [3]string{"d1", "h1", "m1"}, [3]Slot{SlotDay1, SlotHour1, SlotMinute1})
	setTime(t, m, [3]string{"d2", "h2", "m2"}, [3]Slot{SlotDay2, SlotHour2, SlotMinute2})
}

const fullPeriod = `(?P<d1>{DD})(?P<h1>{HH})(?P<m1>{MM})/(?P<d2>{DD})(?P<h2>{HH})(?P<m2>{MM})`

var sigmetRecognisers = []*Recogniser{
	{
		Name:     "atsu",
		Kind:     KindAtsuDesignator,
		Pattern:  `(?P<icao>{ICAO})`,
		Priority: PriorityLow,
		Families: sigmetFamilies,
		Accept:   prevIs(KindNone),
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "icao")
		},
	},
	{
		Name:     "sigmet_start",
		Kind:     KindSigmetStart,
		Pattern:  `(?P<type>SIGMET|AIRMET)`,
		Priority: PriorityHigh,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, m.GetCapture("type", ""))
		},
	},
	{
		Name:     "sequence",
		Kind:     KindSequenceDescriptor,
		Pattern:  `(?P<seq>{SIGMET_SEQ})`,
		Priority: PriorityMedium,
		Families: sigmetFamilies,
		Accept:   prevIs(KindSigmetStart),
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "seq")
		},
	},
	{
		Name:     "sigmet_validity",
		Kind:     KindValidTime,
		Pattern:  `VALID ` + fullPeriod,
		Words:    2,
		Priority: PriorityMedium,
		Families: sigmetFamilies,
		Classify: classifyFullPeriod,
	},
	{
		Name:     "sigmet_valid_until",
		Kind:     KindValidTime,
		Pattern:  `VALID UNTIL (?P<h2>{HH})(?P<m2>{MM})Z`,
		Words:    3,
		Priority: PriorityMedium,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			setTime(t, m, [3]string{"", "h2", "m2"}, [3]Slot{SlotDay2, SlotHour2, SlotMinute2})
		},
	},
	{
		Name:     "mwo",
		Kind:     KindMwoDesignator,
		Pattern:  `(?P<icao>{ICAO})-`,
		Priority: PriorityMedium,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "icao")
		},
	},
	{
		Name:     "fir",
		Kind:     KindFirDesignator,
		Pattern:  `(?P<icao>{ICAO})`,
		Priority: PriorityLow,
		Families: sigmetFamilies,
		Accept:   prevIs(KindMwoDesignator),
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "icao")
		},
	},
	{
		Name:     "fir_name",
		Kind:     KindFirName,
		Pattern:  `[A-Z][A-Z/']*`,
		Priority: PriorityLow,
		Families: sigmetFamilies,
		Accept:   prevIs(KindFirDesignator, KindFirName),
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotValue, strings.ToUpper(t.Text))
		},
	},
	{
		Name:     "fir_type",
		Kind:     KindFirType,
		Pattern:  `(?P<type>FIR/UIR|FIR|UIR|CTA)`,
		Priority: PriorityHigh,
		Families: sigmetFamilies,
		Accept:   prevIs(KindFirDesignator, KindFirName),
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "type")
		},
	},
	{
		Name:     "sigmet_cancellation",
		Kind:     KindCancellation,
		Pattern:  `CNL (?P<type>SIGMET|AIRMET) (?P<seq>{SIGMET_SEQ}) ` + fullPeriod,
		Words:    4,
		Priority: PriorityHigh,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, m.GetCapture("type", ""))
			setValue(t, m, "seq")
			classifyFullPeriod(m, t)
		},
	},
	{
		Name: "phenomenon",
		Kind: KindPhenomenon,
		Pattern: `(?P<phen>(?:OBSC|EMBD|FRQ|SQL|ISOL|OCNL) (?:TSGR|TS|CB)|(?:SEV|MOD) (?:TURB|ICE|MTW)` +
			`|HVY (?:DS|SS)|RDOACT CLD|VA CLD)`,
		Words:    2,
		Priority: PriorityMedium,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "phen")
		},
	},
	{
		Name:     "obs_or_forecast",
		Kind:     KindObsOrForecast,
		Pattern:  `(?P<type>OBS|FCST)`,
		Priority: PriorityHigh,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, m.GetCapture("type", ""))
		},
	},
	{
		Name:     "obs_or_forecast_at",
		Kind:     KindObsOrForecast,
		Pattern:  `(?P<type>OBS|FCST) AT (?P<hour>{HH})(?P<minute>{MM})Z`,
		Words:    3,
		Priority: PriorityHigh,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, m.GetCapture("type", ""))
			setTime(t, m, [3]string{"", "hour", "minute"}, [3]Slot{SlotDay1, SlotHour1, SlotMinute1})
		},
	},
	{
		Name:     "polygon_start",
		Kind:     KindPolygonStart,
		Pattern:  `WI`,
		Priority: PriorityHigh,
		Families: sigmetFamilies,
	},
	{
		Name:     "entire_area",
		Kind:     KindEntireArea,
		Pattern:  `ENTIRE (?P<area>FIR/UIR|FIR|UIR|CTA)`,
		Words:    2,
		Priority: PriorityHigh,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "area")
		},
	},
	{
		Name:     "area_line",
		Kind:     KindAreaLine,
		Pattern:  `(?P<dir>N|NE|E|SE|S|SW|W|NW) OF (?P<coord>{LAT}|{LON})`,
		Words:    3,
		Priority: PriorityMedium,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotDirection, m.GetCapture("dir", ""))
			coord := m.GetCapture("coord", "")
			if coord[0] == 'N' || coord[0] == 'S' {
				v, err := patterns.ParseLatitude(coord)
				if err != nil {
					t.fail("%v", err)
					return
				}
				t.set(SlotLatitude, v)
				return
			}
			v, err := patterns.ParseLongitude(coord)
			if err != nil {
				t.fail("%v", err)
				return
			}
			t.set(SlotLongitude, v)
		},
	},
	{
		Name:     "stationary",
		Kind:     KindMovement,
		Pattern:  `STNR`,
		Priority: PriorityHigh,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "STNR")
		},
	},
	{
		Name:     "movement",
		Kind:     KindMovement,
		Pattern:  `MOV (?P<dir>{COMPASS16}) (?P<speed>\d{1,3})(?P<unit>KT|KMH)`,
		Words:    3,
		Priority: PriorityMedium,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "MOV")
			t.set(SlotDirection, m.GetCapture("dir", ""))
			speed, _ := m.Int("speed")
			t.set(SlotValue, speed)
			t.set(SlotUnit, m.GetCapture("unit", ""))
		},
	},
	{
		Name:     "intensity_change",
		Kind:     KindIntensityChange,
		Pattern:  `(?P<value>INTSF|WKN|NC)`,
		Priority: PriorityHigh,
		Families: sigmetFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "value")
		},
	},
}

func init() {
	register(sigmetRecognisers...)
}
