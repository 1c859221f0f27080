package model

import (
	"time"

	"github.com/paulmach/orb"

	"tac_converter/internal/conversion"
)

// Message is implemented by every converted message type.
type Message interface {
	Family() conversion.Family
	// Location is the aerodrome, FIR, issuing centre or bulletin originator.
	Location() string
	// Translated gives access to the source TAC and translation time.
	Translated() *Translation
}

// Translated implements Message for every type embedding Translation.
func (t *Translation) Translated() *Translation {
	return t
}

// Restamped returns a shallow copy of m with the translation time set to
// at. The members of a bulletin are copied and stamped too. m itself is not
// modified.
func Restamped(m Message, at time.Time) Message {
	var out Message
	switch v := m.(type) {
	case *TAF:
		c := *v
		out = &c
	case *METAR:
		c := *v
		out = &c
	case *SIGMET:
		c := *v
		out = &c
	case *SpaceWeatherAdvisory:
		c := *v
		out = &c
	case *Bulletin:
		c := *v
		c.Messages = make([]Message, len(v.Messages))
		for i, member := range v.Messages {
			c.Messages[i] = Restamped(member, at)
		}
		out = &c
	default:
		return m
	}
	out.Translated().TranslationTime = at
	return out
}

// TAFStatus is the report status of a TAF.
type TAFStatus string

const (
	TAFNormal       TAFStatus = "NORMAL"
	TAFAmendment    TAFStatus = "AMENDMENT"
	TAFCorrection   TAFStatus = "CORRECTION"
	TAFCancellation TAFStatus = "CANCELLATION"
	TAFMissing      TAFStatus = "MISSING"
)

// TemperaturePair is a TX/TN pair with the times they are expected.
type TemperaturePair struct {
	Max     float64         `json:"max"`
	MaxTime PartialDateTime `json:"max_time"`
	Min     float64         `json:"min"`
	MinTime PartialDateTime `json:"min_time"`
}

// TAFBaseForecast is the forecast for the whole validity period.
type TAFBaseForecast struct {
	Conditions
	Temperatures []TemperaturePair `json:"temperatures,omitempty"`
}

// TAFChangeForecast is one BECMG, TEMPO, FM or PROB group.
type TAFChangeForecast struct {
	Type   ChangeType `json:"type"`
	Period Period     `json:"period"`
	Conditions
}

// TAF is an aerodrome forecast.
type TAF struct {
	Translation
	Status          TAFStatus           `json:"status"`
	Aerodrome       string              `json:"aerodrome"`
	IssueTime       PartialDateTime     `json:"issue_time"`
	Validity        Period              `json:"validity"`
	BaseForecast    *TAFBaseForecast    `json:"base_forecast,omitempty"`
	ChangeForecasts []TAFChangeForecast `json:"change_forecasts,omitempty"`
	Remarks         []string            `json:"remarks,omitempty"`
}

func (t *TAF) Family() conversion.Family { return conversion.FamilyTAF }
func (t *TAF) Location() string          { return t.Aerodrome }

// AirTemperatures is the observed air and dew point temperature pair.
type AirTemperatures struct {
	Air      float64 `json:"air"`
	Dewpoint float64 `json:"dewpoint"`
}

// Pressure is QNH in hPa or inHg.
type Pressure struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// RunwayVisualRange is one RVR group.
type RunwayVisualRange struct {
	Runway   string   `json:"runway"`
	Distance int      `json:"distance"`
	Operator Operator `json:"operator,omitempty"`
	Tendency string   `json:"tendency,omitempty"`
}

// WindShear lists runways affected by wind shear.
type WindShear struct {
	AllRunways bool     `json:"all_runways,omitempty"`
	Runways    []string `json:"runways,omitempty"`
}

// METARTrend is a BECMG or TEMPO trend forecast.
type METARTrend struct {
	Type  ChangeType      `json:"type"`
	From  PartialDateTime `json:"from"`
	Until PartialDateTime `json:"until"`
	At    PartialDateTime `json:"at"`
	Conditions
}

// METAR is a routine (METAR) or special (SPECI) aerodrome observation.
type METAR struct {
	Translation
	Special              bool                `json:"special,omitempty"`
	Correction           bool                `json:"correction,omitempty"`
	Missing              bool                `json:"missing,omitempty"`
	Automated            bool                `json:"automated,omitempty"`
	Aerodrome            string              `json:"aerodrome"`
	IssueTime            PartialDateTime     `json:"issue_time"`
	Observed             Conditions          `json:"observed"`
	WindVariation        *WindVariation      `json:"wind_variation,omitempty"`
	MinimumVisibility    *Visibility         `json:"minimum_visibility,omitempty"`
	RunwayVisualRanges   []RunwayVisualRange `json:"rvr,omitempty"`
	Temperatures         *AirTemperatures    `json:"temperatures,omitempty"`
	Pressure             *Pressure           `json:"pressure,omitempty"`
	RecentWeather        []string            `json:"recent_weather,omitempty"`
	WindShear            *WindShear          `json:"wind_shear,omitempty"`
	NoSignificantChanges bool                `json:"nosig,omitempty"`
	Trends               []METARTrend        `json:"trends,omitempty"`
	Remarks              []string            `json:"remarks,omitempty"`
}

func (m *METAR) Family() conversion.Family {
	if m.Special {
		return conversion.FamilySPECI
	}
	return conversion.FamilyMETAR
}

func (m *METAR) Location() string { return m.Aerodrome }

// AreaLine is a "N OF N6000" style boundary.
type AreaLine struct {
	Direction  string  `json:"direction"`
	Coordinate float64 `json:"coordinate"`
	Latitude   bool    `json:"latitude"`
}

// Area is the location of a SIGMET phenomenon. Polygon points are
// longitude/latitude pairs in degrees.
type Area struct {
	Entire  string     `json:"entire,omitempty"`
	Polygon orb.Ring   `json:"polygon,omitempty"`
	Lines   []AreaLine `json:"lines,omitempty"`
}

// IsEmpty reports whether no location was given.
func (a Area) IsEmpty() bool {
	return a.Entire == "" && len(a.Polygon) == 0 && len(a.Lines) == 0
}

// Movement is the expected movement of a phenomenon.
type Movement struct {
	Stationary bool   `json:"stationary,omitempty"`
	Direction  string `json:"direction,omitempty"`
	Speed      int    `json:"speed,omitempty"`
	Unit       string `json:"unit,omitempty"`
}

// SigmetAnalysis is the observed or forecast phenomenon description.
type SigmetAnalysis struct {
	Forecast        bool            `json:"forecast,omitempty"`
	Time            PartialDateTime `json:"time"`
	Area            Area            `json:"area"`
	Level           *Level          `json:"level,omitempty"`
	Movement        *Movement       `json:"movement,omitempty"`
	IntensityChange string          `json:"intensity_change,omitempty"`
}

// SigmetForecastPosition is the trailing "FCST AT hhmmZ" position.
type SigmetForecastPosition struct {
	Time PartialDateTime `json:"time"`
	Area Area            `json:"area"`
}

// SIGMET is a SIGMET or AIRMET.
type SIGMET struct {
	Translation
	Airmet            bool                    `json:"airmet,omitempty"`
	IssuingUnit       string                  `json:"issuing_unit"`
	Sequence          string                  `json:"sequence"`
	Validity          Period                  `json:"validity"`
	MWO               string                  `json:"mwo"`
	FIR               string                  `json:"fir"`
	FIRName           string                  `json:"fir_name,omitempty"`
	FIRType           string                  `json:"fir_type,omitempty"`
	Cancelled         bool                    `json:"cancelled,omitempty"`
	CancelledSequence string                  `json:"cancelled_sequence,omitempty"`
	CancelledValidity Period                  `json:"cancelled_validity"`
	Phenomenon        string                  `json:"phenomenon,omitempty"`
	Analysis          *SigmetAnalysis         `json:"analysis,omitempty"`
	ForecastPosition  *SigmetForecastPosition `json:"forecast_position,omitempty"`
	Remarks           []string                `json:"remarks,omitempty"`
}

func (s *SIGMET) Family() conversion.Family {
	if s.Airmet {
		return conversion.FamilyAIRMET
	}
	return conversion.FamilySIGMET
}

func (s *SIGMET) Location() string { return s.FIR }

// AdvisoryNumber is "yyyy/n".
type AdvisoryNumber struct {
	Year   int `json:"year"`
	Serial int `json:"serial"`
}

// IsZero reports an unset advisory number.
func (a AdvisoryNumber) IsZero() bool {
	return a.Year == 0 && a.Serial == 0
}

// LongitudeBand is an "E18000 - W18000" limit.
type LongitudeBand struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// SWXAnalysis is one OBS SWX or FCST SWX +n HR section.
type SWXAnalysis struct {
	Forecast               bool            `json:"forecast,omitempty"`
	HourOffset             int             `json:"hour_offset,omitempty"`
	Time                   PartialDateTime `json:"time"`
	NoPhenomenaExpected    bool            `json:"no_swx_expected,omitempty"`
	NoInformationAvailable bool            `json:"not_available,omitempty"`
	Regions                []string        `json:"regions,omitempty"`
	LongitudeBand          *LongitudeBand  `json:"longitude_band,omitempty"`
	Polygon                orb.Ring        `json:"polygon,omitempty"`
	Level                  *Level          `json:"level,omitempty"`
}

// NextAdvisoryType tells how the next advisory is announced.
type NextAdvisoryType string

const (
	NextAdvisoryNone NextAdvisoryType = "NO_FURTHER_ADVISORIES"
	NextAdvisoryBy   NextAdvisoryType = "BY"
	NextAdvisoryAt   NextAdvisoryType = "AT"
)

// NextAdvisory is the NXT ADVISORY field.
type NextAdvisory struct {
	Type NextAdvisoryType `json:"type"`
	Time time.Time        `json:"time"`
}

// SpaceWeatherAdvisory is a space weather (SWX) advisory.
type SpaceWeatherAdvisory struct {
	Translation
	Status           string          `json:"status,omitempty"`
	IssueTime        time.Time       `json:"issue_time"`
	IssuingCentre    string          `json:"issuing_centre"`
	AdvisoryNumber   AdvisoryNumber  `json:"advisory_number"`
	ReplacesAdvisory *AdvisoryNumber `json:"replaces_advisory,omitempty"`
	Effects          []string        `json:"effects,omitempty"`
	Analyses         []SWXAnalysis   `json:"analyses,omitempty"`
	Remarks          []string        `json:"remarks,omitempty"`
	NextAdvisory     NextAdvisory    `json:"next_advisory"`
}

func (s *SpaceWeatherAdvisory) Family() conversion.Family { return conversion.FamilySWX }
func (s *SpaceWeatherAdvisory) Location() string          { return s.IssuingCentre }

// BulletinHeading is the "TTAAii CCCC YYGGgg [BBB]" line of a bulletin.
type BulletinHeading struct {
	Designator   string          `json:"designator"`
	Location     string          `json:"location"`
	IssueTime    PartialDateTime `json:"issue_time"`
	Augmentation string          `json:"augmentation,omitempty"`
}

// Bulletin is a collection of messages under one heading.
type Bulletin struct {
	Translation
	Heading  BulletinHeading `json:"heading"`
	Messages []Message       `json:"messages"`
}

func (b *Bulletin) Family() conversion.Family { return conversion.FamilyBulletin }
func (b *Bulletin) Location() string          { return b.Heading.Location }
