// Package lexer turns bulletin text into a sequence of classified tokens.
package lexer

import "fmt"

// Kind identifies what a token is. KindNone marks an unrecognised token.
type Kind int

const (
	KindNone Kind = iota

	// Shared by several message families.
	KindEndToken
	KindRemarksStart
	KindRemark
	KindAerodromeDesignator
	KindIssueTime
	KindNil
	KindCorrection
	KindAmendment
	KindCancellation
	KindSurfaceWind
	KindCAVOK
	KindHorizontalVisibility
	KindWeather
	KindNoSignificantWeather
	KindCloud
	KindLatLon
	KindDash
	KindConjunction
	KindLevel

	// METAR and SPECI.
	KindMetarStart
	KindSpeciStart
	KindAutomatedObservation
	KindVariableWindDirection
	KindRunwayVisualRange
	KindAirDewpointTemperature
	KindAirPressureQNH
	KindRecentWeather
	KindWindShear
	KindTrendChangeIndicator
	KindTrendTimeGroup

	// TAF.
	KindTafStart
	KindValidTime
	KindForecastChangeIndicator
	KindChangeForecastTimeGroup
	KindMinTemperature
	KindMaxTemperature

	// SIGMET and AIRMET.
	KindSigmetStart
	KindAtsuDesignator
	KindSequenceDescriptor
	KindMwoDesignator
	KindFirDesignator
	KindFirName
	KindFirType
	KindPhenomenon
	KindObsOrForecast
	KindPolygonStart
	KindEntireArea
	KindAreaLine
	KindMovement
	KindIntensityChange

	// Space weather advisories.
	KindSwxStart
	KindStatusLabel
	KindAdvisoryStatus
	KindDtgLabel
	KindSwxCentreLabel
	KindSwxCentre
	KindAdvisoryNumberLabel
	KindAdvisoryNumber
	KindReplaceAdvisoryNumberLabel
	KindReplaceAdvisoryNumber
	KindSwxEffectLabel
	KindSwxEffect
	KindSwxPhenomenaLabel
	KindSwxTimeGroup
	KindSwxPresetLocation
	KindLongitudeLimit
	KindSwxNotExpected
	KindSwxNotAvailable
	KindNextAdvisoryLabel
	KindNextAdvisory

	kindCount
)

var kindNames = [kindCount]string{
	KindNone:                       "UNRECOGNIZED",
	KindEndToken:                   "END_TOKEN",
	KindRemarksStart:               "REMARKS_START",
	KindRemark:                     "REMARK",
	KindAerodromeDesignator:        "AERODROME_DESIGNATOR",
	KindIssueTime:                  "ISSUE_TIME",
	KindNil:                        "NIL",
	KindCorrection:                 "CORRECTION",
	KindAmendment:                  "AMENDMENT",
	KindCancellation:               "CANCELLATION",
	KindSurfaceWind:                "SURFACE_WIND",
	KindCAVOK:                      "CAVOK",
	KindHorizontalVisibility:       "HORIZONTAL_VISIBILITY",
	KindWeather:                    "WEATHER",
	KindNoSignificantWeather:       "NO_SIGNIFICANT_WEATHER",
	KindCloud:                      "CLOUD",
	KindLatLon:                     "LAT_LON",
	KindDash:                       "DASH",
	KindConjunction:                "CONJUNCTION",
	KindLevel:                      "LEVEL",
	KindMetarStart:                 "METAR_START",
	KindSpeciStart:                 "SPECI_START",
	KindAutomatedObservation:       "AUTOMATED",
	KindVariableWindDirection:      "VARIABLE_WIND_DIRECTION",
	KindRunwayVisualRange:          "RUNWAY_VISUAL_RANGE",
	KindAirDewpointTemperature:     "AIR_DEWPOINT_TEMPERATURE",
	KindAirPressureQNH:             "AIR_PRESSURE_QNH",
	KindRecentWeather:              "RECENT_WEATHER",
	KindWindShear:                  "WIND_SHEAR",
	KindTrendChangeIndicator:       "TREND_CHANGE_INDICATOR",
	KindTrendTimeGroup:             "TREND_TIME_GROUP",
	KindTafStart:                   "TAF_START",
	KindValidTime:                  "VALID_TIME",
	KindForecastChangeIndicator:    "TAF_FORECAST_CHANGE_INDICATOR",
	KindChangeForecastTimeGroup:    "TAF_CHANGE_FORECAST_TIME_GROUP",
	KindMinTemperature:             "MIN_TEMPERATURE",
	KindMaxTemperature:             "MAX_TEMPERATURE",
	KindSigmetStart:                "SIGMET_START",
	KindAtsuDesignator:             "ATSU_DESIGNATOR",
	KindSequenceDescriptor:         "SEQUENCE_DESCRIPTOR",
	KindMwoDesignator:              "MWO_DESIGNATOR",
	KindFirDesignator:              "FIR_DESIGNATOR",
	KindFirName:                    "FIR_NAME",
	KindFirType:                    "FIR_TYPE",
	KindPhenomenon:                 "PHENOMENON",
	KindObsOrForecast:              "OBS_OR_FORECAST",
	KindPolygonStart:               "POLYGON_START",
	KindEntireArea:                 "ENTIRE_AREA",
	KindAreaLine:                   "AREA_LINE",
	KindMovement:                   "MOVEMENT",
	KindIntensityChange:            "INTENSITY_CHANGE",
	KindSwxStart:                   "SWX_START",
	KindStatusLabel:                "STATUS_LABEL",
	KindAdvisoryStatus:             "ADVISORY_STATUS",
	KindDtgLabel:                   "DTG_LABEL",
	KindSwxCentreLabel:             "SWX_CENTRE_LABEL",
	KindSwxCentre:                  "SWX_CENTRE",
	KindAdvisoryNumberLabel:        "ADVISORY_NUMBER_LABEL",
	KindAdvisoryNumber:             "ADVISORY_NUMBER",
	KindReplaceAdvisoryNumberLabel: "REPLACE_ADVISORY_NUMBER_LABEL",
	KindReplaceAdvisoryNumber:      "REPLACE_ADVISORY_NUMBER",
	KindSwxEffectLabel:             "SWX_EFFECT_LABEL",
	KindSwxEffect:                  "SWX_EFFECT",
	KindSwxPhenomenaLabel:          "SWX_PHENOMENA_LABEL",
	KindSwxTimeGroup:               "SWX_TIME_GROUP",
	KindSwxPresetLocation:          "SWX_PRESET_LOCATION",
	KindLongitudeLimit:             "LONGITUDE_LIMIT",
	KindSwxNotExpected:             "SWX_NOT_EXPECTED",
	KindSwxNotAvailable:            "SWX_NOT_AVAILABLE",
	KindNextAdvisoryLabel:          "NEXT_ADVISORY_LABEL",
	KindNextAdvisory:               "NEXT_ADVISORY",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Kinds returns every kind except KindNone.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindNone + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// KindOf looks a kind up by name.
func KindOf(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindNone, false
}
