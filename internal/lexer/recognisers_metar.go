package lexer

import (
	"tac_converter/internal/patterns"
)

var metarRecognisers = []*Recogniser{
	{
		Name:     "metar_start",
		Kind:     KindMetarStart,
		Pattern:  `METAR`,
		Priority: PriorityHigh,
		Accept:   prevIs(KindNone),
	},
	{
		Name:     "speci_start",
		Kind:     KindSpeciStart,
		Pattern:  `SPECI`,
		Priority: PriorityHigh,
		Accept:   prevIs(KindNone),
	},
	{
		Name:     "automated",
		Kind:     KindAutomatedObservation,
		Pattern:  `AUTO`,
		Priority: PriorityHigh,
		Families: observationFamilies,
	},
	{
		Name:     "variable_wind",
		Kind:     KindVariableWindDirection,
		Pattern:  `(?P<from>\d{3})V(?P<to>\d{3})`,
		Priority: PriorityMedium,
		Families: observationFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			from, _ := m.Int("from")
			to, _ := m.Int("to")
			t.set(SlotDirection, from)
			t.set(SlotDirection2, to)
			if from > 360 || to > 360 {
				t.fail("Invalid wind direction in '%s'", t.Text)
			}
		},
	},
	{
		Name:     "runway_visual_range",
		Kind:     KindRunwayVisualRange,
		Pattern:  `R(?P<rwy>{RUNWAY})/(?P<op>[PM])?(?P<value>\d{4})(?P<tend>[UDN])?`,
		Priority: PriorityMedium,
		Families: observationFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotRunway, m.GetCapture("rwy", ""))
			v, _ := m.Int("value")
			t.set(SlotValue, v)
			switch m.GetCapture("op", "") {
			case "P":
				t.set(SlotOperator, "ABOVE")
			case "M":
				t.set(SlotOperator, "BELOW")
			}
			if tend := m.GetCapture("tend", ""); tend != "" {
				t.set(SlotTendency, tend)
			}
		},
	},
	{
		Name:     "air_dewpoint",
		Kind:     KindAirDewpointTemperature,
		Pattern:  `(?P<air>{TEMP})/(?P<dew>{TEMP})`,
		Priority: PriorityMedium,
		Families: observationFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			air := temperature(m.GetCapture("air", ""))
			dew := temperature(m.GetCapture("dew", ""))
			t.set(SlotValue, air)
			t.set(SlotValue2, dew)
			if dew > air {
				t.fail("Dew point above air temperature in '%s'", t.Text)
			}
		},
	},
	{
		Name:     "qnh",
		Kind:     KindAirPressureQNH,
		Pattern:  `(?P<unit>[QA])(?P<value>\d{4})`,
		Priority: PriorityMedium,
		Families: observationFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			v, _ := m.Int("value")
			if m.GetCapture("unit", "") == "A" {
				t.set(SlotValue, float64(v)/100)
				t.set(SlotUnit, "inHg")
				return
			}
			t.set(SlotValue, float64(v))
			t.set(SlotUnit, "hPa")
		},
	},
	{
		Name:     "recent_weather",
		Kind:     KindRecentWeather,
		Pattern:  `RE(?P<code>(?:{WX_DESCRIPTOR})?(?:{WX_PHENOMENA})?)`,
		Priority: PriorityMedium,
		Families: observationFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			code := m.GetCapture("code", "")
			t.set(SlotValue, code)
			if !ValidWeatherCode(code) {
				t.fail("Invalid recent weather code '%s'", t.Text)
			}
		},
	},
	{
		Name:     "wind_shear_all",
		Kind:     KindWindShear,
		Pattern:  `WS ALL RWY`,
		Words:    3,
		Priority: PriorityHigh,
		Families: observationFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "ALL")
		},
	},
	{
		Name:     "wind_shear_runway",
		Kind:     KindWindShear,
		Pattern:  `WS (?:RWY|R)(?P<rwy>{RUNWAY})`,
		Words:    2,
		Priority: PriorityMedium,
		Families: observationFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "RWY")
			t.set(SlotRunway, m.GetCapture("rwy", ""))
		},
	},
	{
		Name:     "trend_change",
		Kind:     KindTrendChangeIndicator,
		Pattern:  `(?P<type>NOSIG|BECMG|TEMPO)`,
		Priority: PriorityHigh,
		Families: observationFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, m.GetCapture("type", ""))
		},
	},
	{
		Name:     "trend_time",
		Kind:     KindTrendTimeGroup,
		Pattern:  `(?P<type>FM|TL|AT)(?P<hour>{HH})(?P<minute>{MM})`,
		Priority: PriorityMedium,
		Families: observationFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, m.GetCapture("type", ""))
			setTime(t, m, [3]string{"", "hour", "minute"}, [3]Slot{SlotDay1, SlotHour1, SlotMinute1})
		},
	},
}

func init() {
	register(metarRecognisers...)
}
