package lexer

import (
	"math"
	"strings"

	"tac_converter/internal/conversion"
	"tac_converter/internal/patterns"
)

var (
	aerodromeFamilies   = []conversion.Family{conversion.FamilyMETAR, conversion.FamilySPECI, conversion.FamilyTAF}
	observationFamilies = []conversion.Family{conversion.FamilyMETAR, conversion.FamilySPECI}
	tafFamily           = []conversion.Family{conversion.FamilyTAF}
	sigmetFamilies      = []conversion.Family{conversion.FamilySIGMET, conversion.FamilyAIRMET}
	swxFamily           = []conversion.Family{conversion.FamilySWX}
	geometryFamilies    = []conversion.Family{conversion.FamilySIGMET, conversion.FamilyAIRMET, conversion.FamilySWX}
	remarkFamilies      = []conversion.Family{conversion.FamilyMETAR, conversion.FamilySPECI, conversion.FamilyTAF,
		conversion.FamilySIGMET, conversion.FamilyAIRMET}
)

// prevIs accepts when the previous token has one of the kinds.
func prevIs(kinds ...Kind) func(*Context) bool {
	return func(ctx *Context) bool {
		return containsKind(kinds, ctx.Prev)
	}
}

// setTime stores the present parts of a day/hour/minute group and marks
// the token invalid when a part is out of range.
func setTime(t *Token, m *patterns.Match, groups [3]string, slots [3]Slot) {
	limits := [3][2]int{{1, 31}, {0, 24}, {0, 59}}
	for i, g := range groups {
		if g == "" {
			continue
		}
		v, ok := m.Int(g)
		if !ok {
			continue
		}
		t.set(slots[i], v)
		if v < limits[i][0] || v > limits[i][1] {
			t.fail("Invalid time in '%s'", t.Text)
		}
	}
}

// temperature parses "M05" style values. Minus zero stays negative so it
// renders back as M00.
func temperature(s string) float64 {
	neg := strings.HasPrefix(s, "M")
	s = strings.TrimPrefix(s, "M")
	v := 0.0
	for _, c := range s {
		v = v*10 + float64(c-'0')
	}
	if neg {
		return math.Copysign(v, -1)
	}
	return v
}

func setValue(t *Token, m *patterns.Match, group string) {
	t.set(SlotValue, m.GetCapture(group, ""))
}

var commonRecognisers = []*Recogniser{
	{
		Name:      "end",
		Kind:      KindEndToken,
		Pattern:   `=`,
		Priority:  PriorityHigh,
		InRemarks: true,
	},
	{
		Name:     "remarks_start",
		Kind:     KindRemarksStart,
		Pattern:  `RMK`,
		Priority: PriorityHigh,
		Families: remarkFamilies,
	},
	{
		Name:      "remark",
		Kind:      KindRemark,
		Pattern:   `\S+`,
		Priority:  PriorityMedium,
		InRemarks: true,
		Accept:    func(ctx *Context) bool { return ctx.InRemarks },
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotValue, t.Text)
		},
	},
	{
		Name:     "aerodrome",
		Kind:     KindAerodromeDesignator,
		Pattern:  `(?P<icao>{ICAO})`,
		Priority: PriorityLow,
		Families: aerodromeFamilies,
		Accept:   prevIs(KindMetarStart, KindSpeciStart, KindTafStart, KindCorrection, KindAmendment),
		Classify: func(m *patterns.Match, t *Token) {
			setValue(t, m, "icao")
		},
	},
	{
		Name:     "issue_time",
		Kind:     KindIssueTime,
		Pattern:  `(?P<day>{DD})(?P<hour>{HH})(?P<minute>{MM})Z`,
		Priority: PriorityMedium,
		Families: aerodromeFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			setTime(t, m, [3]string{"day", "hour", "minute"}, [3]Slot{SlotDay1, SlotHour1, SlotMinute1})
		},
	},
	{
		Name:     "nil",
		Kind:     KindNil,
		Pattern:  `NIL`,
		Priority: PriorityHigh,
		Families: aerodromeFamilies,
	},
	{
		Name:     "correction",
		Kind:     KindCorrection,
		Pattern:  `COR`,
		Priority: PriorityHigh,
		Families: aerodromeFamilies,
	},
	{
		Name:     "surface_wind",
		Kind:     KindSurfaceWind,
		Pattern:  `(?P<dir>{WIND_DIR})(?P<meanop>P)?(?P<mean>{WIND_SPD})(?:G(?P<gustop>P)?(?P<gust>{WIND_SPD}))?(?P<unit>{WIND_UNIT})`,
		Priority: PriorityMedium,
		Families: aerodromeFamilies,
		Classify: classifyWind,
	},
	{
		Name:     "cavok",
		Kind:     KindCAVOK,
		Pattern:  `CAVOK`,
		Priority: PriorityHigh,
		Families: aerodromeFamilies,
	},
	{
		Name:     "visibility",
		Kind:     KindHorizontalVisibility,
		Pattern:  `(?P<vis>{VIS})(?P<dir>{COMPASS8})?(?:NDV)?`,
		Priority: PriorityMedium,
		Families: aerodromeFamilies,
		Classify: classifyVisibility,
	},
	{
		Name:     "weather",
		Kind:     KindWeather,
		Pattern:  `(?P<code>(?:{WX_INTENSITY})?(?:{WX_DESCRIPTOR})?(?:{WX_PHENOMENA})?)`,
		Priority: PriorityMedium,
		Families: aerodromeFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			code := m.GetCapture("code", "")
			t.set(SlotValue, code)
			if !ValidWeatherCode(code) {
				t.fail("Invalid weather code '%s'", code)
			}
		},
	},
	{
		Name:     "nsw",
		Kind:     KindNoSignificantWeather,
		Pattern:  `NSW`,
		Priority: PriorityHigh,
		Families: aerodromeFamilies,
	},
	{
		Name:     "cloud_layer",
		Kind:     KindCloud,
		Pattern:  `(?P<cover>{CLOUD_COVER})(?P<height>\d{3}|///)(?P<type>{CLOUD_TYPE}|///)?`,
		Priority: PriorityMedium,
		Families: aerodromeFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "LAYER")
			t.set(SlotCover, m.GetCapture("cover", ""))
			if h, ok := m.Int("height"); ok {
				t.set(SlotValue, h)
			}
			if ct := m.GetCapture("type", ""); ct != "" && ct != "///" {
				t.set(SlotCloudType, ct)
			}
		},
	},
	{
		Name:     "cloud_vv",
		Kind:     KindCloud,
		Pattern:  `VV(?P<height>\d{3}|///)`,
		Priority: PriorityMedium,
		Families: aerodromeFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, "VV")
			if h, ok := m.Int("height"); ok {
				t.set(SlotValue, h)
			}
		},
	},
	{
		Name:     "cloud_none",
		Kind:     KindCloud,
		Pattern:  `(?P<type>NSC|NCD|SKC)`,
		Priority: PriorityHigh,
		Families: aerodromeFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			t.set(SlotType, m.GetCapture("type", ""))
		},
	},
	{
		Name:     "lat_lon",
		Kind:     KindLatLon,
		Pattern:  `(?P<lat>{LAT}) (?P<lon>{LON})`,
		Words:    2,
		Priority: PriorityMedium,
		Families: geometryFamilies,
		Classify: func(m *patterns.Match, t *Token) {
			lat, err := patterns.ParseLatitude(m.GetCapture("lat", ""))
			if err != nil {
				t.fail("%v", err)
				return
			}
			lon, err := patterns.ParseLongitude(m.GetCapture("lon", ""))
			if err != nil {
				t.fail("%v", err)
				return
			}
			t.set(SlotLatitude, lat)
			t.set(SlotLongitude, lon)
		},
	},
	{
		Name:     "dash",
		Kind:     KindDash,
		Pattern:  `-`,
		Priority: PriorityHigh,
		Families: geometryFamilies,
	},
	{
		Name:     "conjunction",
		Kind:     KindConjunction,
		Pattern:  `AND`,
		Priority: PriorityHigh,
		Families: geometryFamilies,
	},
	{
		Name:     "level_range",
		Kind:     KindLevel,
		Pattern:  `(?P<lower>SFC|{LEVEL}|\d{4,5})/(?P<upper>{LEVEL}|\d{3})`,
		Priority: PriorityMedium,
		Families: geometryFamilies,
		Classify: classifyLevelRange,
	},
	{
		Name:     "level_single",
		Kind:     KindLevel,
		Pattern:  `(?P<level>{LEVEL})`,
		Priority: PriorityMedium,
		Families: geometryFamilies,
		Classify: classifyLevelModified,
	},
	{
		Name:     "level_modified",
		Kind:     KindLevel,
		Pattern:  `(?P<mod>TOP|ABV|BLW) (?P<level>{LEVEL})`,
		Words:    2,
		Priority: PriorityMedium,
		Families: geometryFamilies,
		Classify: classifyLevelModified,
	},
	{
		Name:     "level_top_modified",
		Kind:     KindLevel,
		Pattern:  `(?P<mod>TOP ABV|TOP BLW) (?P<level>{LEVEL})`,
		Words:    3,
		Priority: PriorityMedium,
		Families: geometryFamilies,
		Classify: classifyLevelModified,
	},
}

func classifyWind(m *patterns.Match, t *Token) {
	if dir, ok := m.Int("dir"); ok {
		t.set(SlotDirection, dir)
		if dir > 360 || dir%10 != 0 {
			t.fail("Invalid wind direction in '%s'", t.Text)
		}
	}
	mean, _ := m.Int("mean")
	t.set(SlotValue, mean)
	if m.Has("meanop") {
		t.set(SlotOperator, "ABOVE")
	}
	if gust, ok := m.Int("gust"); ok {
		t.set(SlotValue2, gust)
		if m.Has("gustop") {
			t.set(SlotOperator2, "ABOVE")
		}
	}
	t.set(SlotUnit, m.GetCapture("unit", ""))
}

func classifyVisibility(m *patterns.Match, t *Token) {
	v, _ := m.Int("vis")
	switch v {
	case 9999:
		t.set(SlotValue, 10000)
		t.set(SlotOperator, "ABOVE")
	case 0:
		t.set(SlotValue, 50)
		t.set(SlotOperator, "BELOW")
	default:
		t.set(SlotValue, v)
	}
	if dir := m.GetCapture("dir", ""); dir != "" {
		t.set(SlotDirection, dir)
	}
	t.set(SlotUnit, "m")
}

// level splits "FL250" or "3000FT" into value and unit.
func level(s string) (int, string) {
	switch {
	case strings.HasPrefix(s, "FL"):
		return atoiDigits(s[2:]), "FL"
	case strings.HasSuffix(s, "FT"):
		return atoiDigits(strings.TrimSuffix(s, "FT")), "FT"
	case strings.HasSuffix(s, "M"):
		return atoiDigits(strings.TrimSuffix(s, "M")), "M"
	}
	return atoiDigits(s), ""
}

func atoiDigits(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func classifyLevelRange(m *patterns.Match, t *Token) {
	upperValue, upperUnit := level(m.GetCapture("upper", ""))
	if upperUnit == "" {
		upperUnit = "FL"
	}
	lower := m.GetCapture("lower", "")
	if lower == "SFC" {
		t.set(SlotUnit, "SFC")
	} else {
		v, unit := level(lower)
		if unit == "" {
			unit = upperUnit
		}
		t.set(SlotValue, v)
		t.set(SlotUnit, unit)
		if unit == upperUnit && v >= upperValue {
			t.fail("Lower level above upper level in '%s'", t.Text)
		}
	}
	t.set(SlotValue2, upperValue)
	t.set(SlotUnit2, upperUnit)
}

func classifyLevelModified(m *patterns.Match, t *Token) {
	if mod := m.GetCapture("mod", ""); mod != "" {
		t.set(SlotType, mod)
	}
	v, unit := level(m.GetCapture("level", ""))
	t.set(SlotValue, v)
	t.set(SlotUnit, unit)
}

// Weather codes that are complete without a phenomenon.
var descriptorOnlyWeather = map[string]bool{
	"TS": true, "VCTS": true, "VCSH": true, "+TS": true, "-TS": true,
}

// Phenomena that may carry an intensity.
var intensityPhenomena = []string{"DZ", "RA", "SN", "SG", "PL", "GR", "GS", "UP", "SS", "DS", "FC"}

// ValidWeatherCode checks a present or forecast weather code.
func ValidWeatherCode(code string) bool {
	if code == "" {
		return false
	}
	if descriptorOnlyWeather[code] {
		return true
	}
	rest := code
	intensity := ""
	switch {
	case strings.HasPrefix(rest, "VC"):
		intensity, rest = "VC", rest[2:]
	case strings.HasPrefix(rest, "+"), strings.HasPrefix(rest, "-"):
		intensity, rest = rest[:1], rest[1:]
	}
	for _, d := range []string{"MI", "BC", "PR", "DR", "BL", "SH", "TS", "FZ"} {
		if strings.HasPrefix(rest, d) {
			rest = rest[2:]
			break
		}
	}
	if rest == "" || len(rest)%2 != 0 {
		return false
	}
	if intensity == "+" || intensity == "-" {
		for _, p := range intensityPhenomena {
			if strings.Contains(rest, p) {
				return true
			}
		}
		return false
	}
	return true
}

func init() {
	register(commonRecognisers...)
}
