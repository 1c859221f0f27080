package model

import "time"

// Operator qualifies a numeric value as a bound.
type Operator string

const (
	OperatorNone  Operator = ""
	OperatorAbove Operator = "ABOVE"
	OperatorBelow Operator = "BELOW"
)

// Wind is a surface wind group.
type Wind struct {
	Direction    int      `json:"direction,omitempty"`
	Variable     bool     `json:"variable,omitempty"`
	MeanSpeed    int      `json:"mean_speed"`
	MeanOperator Operator `json:"mean_operator,omitempty"`
	Gust         *int     `json:"gust,omitempty"`
	GustOperator Operator `json:"gust_operator,omitempty"`
	Unit         string   `json:"unit"`
}

// WindVariation is the observed extreme direction sector (dddVddd).
type WindVariation struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Visibility is a horizontal visibility in metres.
type Visibility struct {
	Distance  int      `json:"distance"`
	Operator  Operator `json:"operator,omitempty"`
	Direction string   `json:"direction,omitempty"`
}

// Cloud cover amounts.
const (
	CoverFew       = "FEW"
	CoverScattered = "SCT"
	CoverBroken    = "BKN"
	CoverOvercast  = "OVC"
)

// CloudLayer is one reported layer. Height is in feet and nil when it was
// reported as missing.
type CloudLayer struct {
	Cover  string `json:"cover"`
	Height *int   `json:"height_ft,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Clouds is the cloud part of an observation or forecast.
type Clouds struct {
	NoSignificantCloud        bool         `json:"nsc,omitempty"`
	NoCloudDetected           bool         `json:"ncd,omitempty"`
	SkyClear                  bool         `json:"skc,omitempty"`
	VerticalVisibility        *int         `json:"vertical_visibility_ft,omitempty"`
	VerticalVisibilityMissing bool         `json:"vertical_visibility_missing,omitempty"`
	Layers                    []CloudLayer `json:"layers,omitempty"`
}

// Conditions are the fields shared by observations, base forecasts,
// change forecasts and trends.
type Conditions struct {
	SurfaceWind          *Wind       `json:"surface_wind,omitempty"`
	CAVOK                bool        `json:"cavok,omitempty"`
	Visibility           *Visibility `json:"visibility,omitempty"`
	Weather              []string    `json:"weather,omitempty"`
	NoSignificantWeather bool        `json:"nsw,omitempty"`
	Clouds               *Clouds     `json:"clouds,omitempty"`
}

// ChangeType is the indicator of a TAF change forecast or METAR trend.
type ChangeType string

const (
	ChangeBecoming        ChangeType = "BECMG"
	ChangeTemporary       ChangeType = "TEMPO"
	ChangeFrom            ChangeType = "FM"
	ChangeProb30          ChangeType = "PROB30"
	ChangeProb40          ChangeType = "PROB40"
	ChangeProb30Temporary ChangeType = "PROB30 TEMPO"
	ChangeProb40Temporary ChangeType = "PROB40 TEMPO"
)

// Altitude is a level value with its unit: FL, FT or M.
type Altitude struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

// Level is a vertical extent. Modifier is one of "", TOP, ABV, BLW,
// "TOP ABV" or "TOP BLW".
type Level struct {
	Modifier string    `json:"modifier,omitempty"`
	Surface  bool      `json:"surface,omitempty"`
	Lower    *Altitude `json:"lower,omitempty"`
	Upper    *Altitude `json:"upper,omitempty"`
}

// Translation records where a parsed message came from.
type Translation struct {
	TranslatedTAC   string    `json:"translated_tac,omitempty"`
	TranslationTime time.Time `json:"translation_time"`
}
