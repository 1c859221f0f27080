package lexer

import (
	"tac_converter/internal/patterns"
)

var periodGroups = [3]string{"d1", "h1", ""}
var periodEndGroups = [3]string{"d2", "h2", ""}

func classifyPeriod(m *patterns.Match, t *Token) {
	setTime(t, m, periodGroups, [3]Slot{SlotDay1, SlotHour1, SlotMinute1})
	setTime(t, m, periodEndGroups, [3]Slot{SlotDay2, SlotHour2, SlotMinute2})
}

func classifyTemperatureForecast(m *patterns.Match, t *Token) {
	t.set(SlotValue, temperature(m.GetCapture("temp", "")))
	setTime(t, m, [3]string{"day", "hour", ""}, [3]Slot{SlotDay1, SlotHour1, SlotMinute1})
}

// A period group is the validity until the first change indicator and a
// change forecast time group after it.
func outsideChange(ctx *Context) bool { return !ctx.InChange }

func insideChange(ctx *Context) bool { return ctx.InChange }

var tafRecognisers = []*Recogniser{
	{
		Name:     "taf_start",
		Kind:     KindTafStart,
		Pattern:  `TAF`,
		Priority: PriorityHigh,
		Accept:   prevIs(KindNone),
	},
	{
		Name:     "amendment",
		Kind:     KindAmendment,
		Pattern:  `AMD`,
		Priority: PriorityHigh,
		Families: tafFamily,
	},
	{
		Name:     "taf_cancellation",
		Kind:     KindCancellation,
		Pattern:  `CNL`,
		Priority: PriorityHigh,
		Families: tafFamily,
	},
	{
		Name:     "valid_time",
		Kind:     KindValidTime,
		Pattern:  `(?P<d1>{DD})(?P<h1>{HH})/(?P<d2>{DD})?(?P<h2>{HH})`,
		Priority: PriorityMedium,
		Families: tafFamily,
		Accept:   outsideChange,
		Classify: classifyPeriod,
	},
	{
		Name:     "change_time_group",
		Kind:     KindChangeForecastTimeGroup,
		Pattern:  `(?P<d1>{DD})?(?P<h1>{HH})/(?P<d2>{DD})?(?P<h2>{HH})`,
		Priority: PriorityMedium,
		Families: tafFamily,
		Accept:   insideChange,
		Classify: classifyPeriod,
	},
	{
		Name:     "change_indicator",
		Kind:     KindForecastChangeIndicator,
		Pattern:  `(?P<type>BECMG|TEMPO|PROB30|PROB40)`,
		Priority: PriorityHigh,
		Families: tafFamily,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, m.GetCapture("type", ""))
		},
	},
	{
		Name:     "change_indicator_prob_tempo",
		Kind:     KindForecastChangeIndicator,
		Pattern:  `(?P<type>PROB30 TEMPO|PROB40 TEMPO)`,
		Words:    2,
		Priority: PriorityHigh,
		Families: tafFamily,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, m.GetCapture("type", ""))
		},
	},
	{
		Name:     "change_indicator_from",
		Kind:     KindForecastChangeIndicator,
		Pattern:  `FM(?P<day>{DD})?(?P<hour>{HH})(?P<minute>{MM})`,
		Priority: PriorityMedium,
		Families: tafFamily,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "FM")
			setTime(t, m, [3]string{"day", "hour", "minute"}, [3]Slot{SlotDay1, SlotHour1, SlotMinute1})
		},
	},
	{
		Name:     "min_temperature",
		Kind:     KindMinTemperature,
		Pattern:  `TN(?P<temp>{TEMP})/(?P<day>{DD})(?P<hour>{HH})Z`,
		Priority: PriorityMedium,
		Families: tafFamily,
		Classify: classifyTemperatureForecast,
	},
	{
		Name:     "max_temperature",
		Kind:     KindMaxTemperature,
		Pattern:  `TX(?P<temp>{TEMP})/(?P<day>{DD})(?P<hour>{HH})Z`,
		Priority: PriorityMedium,
		Families: tafFamily,
		Classify: classifyTemperatureForecast,
	},
}

func init() {
	register(tafRecognisers...)
}
