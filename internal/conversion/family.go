package conversion

import (
	"fmt"
	"strings"
)

// Family is the kind of bulletin message being converted.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyMETAR
	FamilySPECI
	FamilyTAF
	FamilySIGMET
	FamilyAIRMET
	FamilySWX
	FamilyBulletin
)

var familyNames = map[Family]string{
	FamilyUnknown:  "UNKNOWN",
	FamilyMETAR:    "METAR",
	FamilySPECI:    "SPECI",
	FamilyTAF:      "TAF",
	FamilySIGMET:   "SIGMET",
	FamilyAIRMET:   "AIRMET",
	FamilySWX:      "SWX",
	FamilyBulletin: "BULLETIN",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// MarshalText renders the family by name.
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText parses a family name.
func (f *Family) UnmarshalText(b []byte) error {
	v, err := ParseFamily(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFamily parses a family name. The empty string is FamilyUnknown.
func ParseFamily(s string) (Family, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return FamilyUnknown, nil
	}
	for k, v := range familyNames {
		if v == name {
			return k, nil
		}
	}
	return FamilyUnknown, fmt.Errorf("unknown message family %q", s)
}

// IsObservation reports METAR and SPECI, which share one grammar.
func (f Family) IsObservation() bool {
	return f == FamilyMETAR || f == FamilySPECI
}

// IsSigmet reports SIGMET and AIRMET, which share one grammar.
func (f Family) IsSigmet() bool {
	return f == FamilySIGMET || f == FamilyAIRMET
}
