package lexer

import "fmt"

// Slot names a value parsed out of a token.
type Slot int

const (
	SlotValue Slot = iota
	SlotValue2
	SlotUnit
	SlotUnit2
	SlotOperator
	SlotOperator2
	SlotDirection
	SlotDirection2
	SlotType
	SlotCover
	SlotCloudType
	SlotRunway
	SlotTendency
	SlotYear
	SlotMonth
	SlotDay1
	SlotHour1
	SlotMinute1
	SlotDay2
	SlotHour2
	SlotMinute2
	SlotLatitude
	SlotLongitude

	slotCount
)

var slotNames = [slotCount]string{
	SlotValue:      "VALUE",
	SlotValue2:     "VALUE2",
	SlotUnit:       "UNIT",
	SlotUnit2:      "UNIT2",
	SlotOperator:   "RELATIONAL_OPERATOR",
	SlotOperator2:  "RELATIONAL_OPERATOR2",
	SlotDirection:  "DIRECTION",
	SlotDirection2: "DIRECTION2",
	SlotType:       "TYPE",
	SlotCover:      "COVER",
	SlotCloudType:  "CLOUD_TYPE",
	SlotRunway:     "RUNWAY",
	SlotTendency:   "TENDENCY",
	SlotYear:       "YEAR",
	SlotMonth:      "MONTH",
	SlotDay1:       "DAY1",
	SlotHour1:      "HOUR1",
	SlotMinute1:    "MINUTE1",
	SlotDay2:       "DAY2",
	SlotHour2:      "HOUR2",
	SlotMinute2:    "MINUTE2",
	SlotLatitude:   "LATITUDE",
	SlotLongitude:  "LONGITUDE",
}

func (s Slot) String() string {
	if s >= 0 && s < slotCount {
		return slotNames[s]
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// MarshalText renders the slot by name.
func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	timeSlots1   = []Slot{SlotDay1, SlotHour1, SlotMinute1}
	periodSlots  = []Slot{SlotDay1, SlotHour1, SlotMinute1, SlotDay2, SlotHour2, SlotMinute2}
	valueOnly    = []Slot{SlotValue}
	typeOnly     = []Slot{SlotType}
	noSlots      = []Slot{}
	temperatures = []Slot{SlotValue, SlotDay1, SlotHour1}
)

// declaredSlots lists the slots each kind may carry. A token never holds a
// slot outside its kind's list.
var declaredSlots = map[Kind][]Slot{
	KindNone:                 noSlots,
	KindEndToken:             noSlots,
	KindRemarksStart:         noSlots,
	KindRemark:               valueOnly,
	KindAerodromeDesignator:  valueOnly,
	KindIssueTime:            {SlotYear, SlotMonth, SlotDay1, SlotHour1, SlotMinute1},
	KindNil:                  noSlots,
	KindCorrection:           noSlots,
	KindAmendment:            noSlots,
	KindCancellation:         append([]Slot{SlotType, SlotValue}, periodSlots...),
	KindSurfaceWind:          {SlotDirection, SlotValue, SlotOperator, SlotValue2, SlotOperator2, SlotUnit},
	KindCAVOK:                noSlots,
	KindHorizontalVisibility: {SlotValue, SlotOperator, SlotDirection, SlotUnit},
	KindWeather:              valueOnly,
	KindNoSignificantWeather: noSlots,
	KindCloud:                {SlotType, SlotCover, SlotValue, SlotCloudType},
	KindLatLon:               {SlotLatitude, SlotLongitude},
	KindDash:                 noSlots,
	KindConjunction:          noSlots,
	KindLevel:                {SlotType, SlotValue, SlotUnit, SlotValue2, SlotUnit2},

	KindMetarStart:             noSlots,
	KindSpeciStart:             noSlots,
	KindAutomatedObservation:   noSlots,
	KindVariableWindDirection:  {SlotDirection, SlotDirection2},
	KindRunwayVisualRange:      {SlotRunway, SlotValue, SlotOperator, SlotTendency},
	KindAirDewpointTemperature: {SlotValue, SlotValue2},
	KindAirPressureQNH:         {SlotValue, SlotUnit},
	KindRecentWeather:          valueOnly,
	KindWindShear:              {SlotType, SlotRunway},
	KindTrendChangeIndicator:   typeOnly,
	KindTrendTimeGroup:         {SlotType, SlotHour1, SlotMinute1},

	KindTafStart:                noSlots,
	KindValidTime:               periodSlots,
	KindForecastChangeIndicator: append([]Slot{SlotType}, timeSlots1...),
	KindChangeForecastTimeGroup: periodSlots,
	KindMinTemperature:          temperatures,
	KindMaxTemperature:          temperatures,

	KindSigmetStart:        typeOnly,
	KindAtsuDesignator:     valueOnly,
	KindSequenceDescriptor: valueOnly,
	KindMwoDesignator:      valueOnly,
	KindFirDesignator:      valueOnly,
	KindFirName:            valueOnly,
	KindFirType:            valueOnly,
	KindPhenomenon:         valueOnly,
	KindObsOrForecast:      {SlotType, SlotHour1, SlotMinute1},
	KindPolygonStart:       noSlots,
	KindEntireArea:         valueOnly,
	KindAreaLine:           {SlotDirection, SlotLatitude, SlotLongitude},
	KindMovement:           {SlotType, SlotDirection, SlotValue, SlotUnit},
	KindIntensityChange:    valueOnly,

	KindSwxStart:                   noSlots,
	KindStatusLabel:                noSlots,
	KindAdvisoryStatus:             valueOnly,
	KindDtgLabel:                   noSlots,
	KindSwxCentreLabel:             noSlots,
	KindSwxCentre:                  valueOnly,
	KindAdvisoryNumberLabel:        noSlots,
	KindAdvisoryNumber:             {SlotYear, SlotValue},
	KindReplaceAdvisoryNumberLabel: noSlots,
	KindReplaceAdvisoryNumber:      {SlotYear, SlotValue},
	KindSwxEffectLabel:             noSlots,
	KindSwxEffect:                  valueOnly,
	KindSwxPhenomenaLabel:          {SlotType, SlotValue},
	KindSwxTimeGroup:               timeSlots1,
	KindSwxPresetLocation:          valueOnly,
	KindLongitudeLimit:             {SlotLongitude},
	KindSwxNotExpected:             noSlots,
	KindSwxNotAvailable:            noSlots,
	KindNextAdvisoryLabel:          noSlots,
	KindNextAdvisory:               {SlotType, SlotYear, SlotMonth, SlotDay1, SlotHour1, SlotMinute1},
}

// DeclaredSlots returns the slots a kind may carry.
func DeclaredSlots(k Kind) []Slot {
	return declaredSlots[k]
}

func declares(k Kind, s Slot) bool {
	for _, d := range declaredSlots[k] {
		if d == s {
			return true
		}
	}
	return false
}
