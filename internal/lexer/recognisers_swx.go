package lexer

import (
	"tac_converter/internal/patterns"
)

const swxDateTime = `(?P<year>{YYYY})(?P<month>\d{2})(?P<day>{DD})/(?P<hour>{HH})(?P<minute>{MM})Z`

func classifySWXDateTime(m *patterns.Match, t *Token) {
	year, _ := m.Int("year")
	month, _ := m.Int("month")
	t.set(SlotYear, year)
	t.set(SlotMonth, month)
	if month < 1 || month > 12 {
		t.fail("Invalid time in '%s'", t.Text)
	}
	setTime(t, m, [3]string{"day", "hour", "minute"}, [3]Slot{SlotDay1, SlotHour1, SlotMinute1})
}

func classifyAdvisoryNumber(m *patterns.Match, t *Token) {
	year, _ := m.Int("year")
	serial, _ := m.Int("serial")
	t.set(SlotYear, year)
	t.set(SlotValue, serial)
}

func label(name string, kind Kind, pattern string, words int) *Recogniser {
	return &Recogniser{
		Name:     name,
		Kind:     kind,
		Pattern:  pattern,
		Words:    words,
		Priority: PriorityHigh,
		Families: swxFamily,
	}
}

var swxRecognisers = []*Recogniser{
	{
		Name:     "swx_start",
		Kind:     KindSwxStart,
		Pattern:  `SWX ADVISORY`,
		Words:    2,
		Priority: PriorityHigh,
		Families: swxFamily,
	},
	label("status_label", KindStatusLabel, `STATUS:`, 1),
	label("dtg_label", KindDtgLabel, `DTG:`, 1),
	label("centre_label", KindSwxCentreLabel, `SWXC:`, 1),
	label("advisory_number_label", KindAdvisoryNumberLabel, `ADVISORY NR:`, 2),
	label("replace_advisory_number_label", KindReplaceAdvisoryNumberLabel, `NR RPLC:`, 2),
	label("effect_label", KindSwxEffectLabel, `SWX EFFECT:`, 2),
	label("swx_remarks_start", KindRemarksStart, `RMK:`, 1),
	{
		Name:      "next_advisory_label",
		Kind:      KindNextAdvisoryLabel,
		Pattern:   `NXT ADVISORY:`,
		Words:     2,
		Priority:  PriorityHigh,
		Families:  swxFamily,
		InRemarks: true,
	},
	{
		Name:     "observation_label",
		Kind:     KindSwxPhenomenaLabel,
		Pattern:  `OBS SWX:`,
		Words:    2,
		Priority: PriorityHigh,
		Families: swxFamily,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "OBS")
		},
	},
	{
		Name:     "forecast_label",
		Kind:     KindSwxPhenomenaLabel,
		Pattern:  `FCST SWX \+(?P<hour>\d{1,2}) HR:`,
		Words:    4,
		Priority: PriorityHigh,
		Families: swxFamily,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "FCST")
			h, _ := m.Int("hour")
			t.set(SlotValue, h)
		},
	},
	{
		Name:     "advisory_status",
		Kind:     KindAdvisoryStatus,
		Pattern:  `(?P<status>TEST|EXER)`,
		Priority: PriorityHigh,
		Families: swxFamily,
		Accept:   prevIs(KindStatusLabel),
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "status")
		},
	},
	{
		Name:     "swx_issue_time",
		Kind:     KindIssueTime,
		Pattern:  swxDateTime,
		Priority: PriorityMedium,
		Families: swxFamily,
		Accept:   prevIs(KindDtgLabel),
		Classify: classifySWXDateTime,
	},
	{
		Name:     "swx_centre",
		Kind:     KindSwxCentre,
		Pattern:  `(?P<name>[A-Z]+)`,
		Priority: PriorityLow,
		Families: swxFamily,
		Accept:   prevIs(KindSwxCentreLabel),
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "name")
		},
	},
	{
		Name:     "advisory_number",
		Kind:     KindAdvisoryNumber,
		Pattern:  `(?P<year>{YYYY})/(?P<serial>\d{1,4})`,
		Priority: PriorityMedium,
		Families: swxFamily,
		Accept:   prevIs(KindAdvisoryNumberLabel),
		Classify: classifyAdvisoryNumber,
	},
	{
		Name:     "replace_advisory_number",
		Kind:     KindReplaceAdvisoryNumber,
		Pattern:  `(?P<year>{YYYY})/(?P<serial>\d{1,4})`,
		Priority: PriorityMedium,
		Families: swxFamily,
		Accept:   prevIs(KindReplaceAdvisoryNumberLabel),
		Classify: classifyAdvisoryNumber,
	},
	{
		Name:     "swx_effect",
		Kind:     KindSwxEffect,
		Pattern:  `(?P<effect>(?:SATCOM|GNSS|RADIATION) (?:MOD|SEV))`,
		Words:    2,
		Priority: PriorityMedium,
		Families: swxFamily,
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "effect")
		},
	},
	{
		Name:     "swx_effect_hf",
		Kind:     KindSwxEffect,
		Pattern:  `(?P<effect>HF COM (?:MOD|SEV))`,
		Words:    3,
		Priority: PriorityMedium,
		Families: swxFamily,
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "effect")
		},
	},
	{
		Name:     "swx_time_group",
		Kind:     KindSwxTimeGroup,
		Pattern:  `(?P<day>{DD})/(?P<hour>{HH})(?P<minute>{MM})Z`,
		Priority: PriorityMedium,
		Families: swxFamily,
		Classify: func(m *patterns.Match, t *Token) {
			setTime(t, m, [3]string{"day", "hour", "minute"}, [3]Slot{SlotDay1, SlotHour1, SlotMinute1})
		},
	},
	{
		Name:     "preset_location",
		Kind:     KindSwxPresetLocation,
		Pattern:  `(?P<loc>HNH|HSH|MNH|MSH|EQN|EQS)`,
		Priority: PriorityHigh,
		Families: swxFamily,
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "loc")
		},
	},
	{
		Name:     "daylight_side",
		Kind:     KindSwxPresetLocation,
		Pattern:  `DAYLIGHT SIDE`,
		Words:    2,
		Priority: PriorityHigh,
		Families: swxFamily,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotValue, "DAYLIGHT SIDE")
		},
	},
	{
		Name:     "longitude_limit",
		Kind:     KindLongitudeLimit,
		Pattern:  `(?P<lon>{LON})`,
		Priority: PriorityMedium,
		Families: swxFamily,
		Classify: func(m *patterns.Match, t *Token) {
			v, err := patterns.ParseLongitude(m.GetCapture("lon", ""))
			if err != nil {
				t.fail("%v", err)
				return
			}
			t.set(SlotLongitude, v)
		},
	},
	{
		Name:     "not_expected",
		Kind:     KindSwxNotExpected,
		Pattern:  `NO SWX EXP`,
		Words:    3,
		Priority: PriorityHigh,
		Families: swxFamily,
	},
	{
		Name:     "not_available",
		Kind:     KindSwxNotAvailable,
		Pattern:  `NOT AVBL`,
		Words:    2,
		Priority: PriorityHigh,
		Families: swxFamily,
	},
	{
		Name:     "no_further_advisories",
		Kind:     KindNextAdvisory,
		Pattern:  `NO FURTHER ADVISORIES`,
		Words:    3,
		Priority: PriorityHigh,
		Families: swxFamily,
		Accept:   prevIs(KindNextAdvisoryLabel),
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "NO_FURTHER_ADVISORIES")
		},
	},
	{
		Name:     "next_advisory_by",
		Kind:     KindNextAdvisory,
		Pattern:  `WILL BE ISSUED BY ` + swxDateTime,
		Words:    5,
		Priority: PriorityMedium,
		Families: swxFamily,
		Accept:   prevIs(KindNextAdvisoryLabel),
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "BY")
			classifySWXDateTime(m, t)
		},
	},
	{
		Name:     "next_advisory_at",
		Kind:     KindNextAdvisory,
		Pattern:  swxDateTime,
		Priority: PriorityMedium,
		Families: swxFamily,
		Accept:   prevIs(KindNextAdvisoryLabel),
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "AT")
			classifySWXDateTime(m, t)
		},
	},
}

func init() {
	register(swxRecognisers...)
}
