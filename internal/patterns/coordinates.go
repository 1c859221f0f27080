// Package patterns provides the placeholder regex compiler used to declare
// token recognisers, plus coordinate helpers.
// This file contains coordinate conversion utilities.

package patterns

import (
	"fmt"
	"math"
	"strconv"
)

// ParseLatitude parses N6030 / S12 / N8 style latitudes into decimal
// degrees. South is negative.
func ParseLatitude(s string) (float64, error) {
	return parseHemisphereCoord(s, 2, "N", "S")
}

// ParseLongitude parses E02500 / W180 / W2000 style longitudes into decimal
// degrees. West is negative.
func ParseLongitude(s string) (float64, error) {
	return parseHemisphereCoord(s, 3, "E", "W")
}

// parseHemisphereCoord reads up to degDigits digits of degrees. Two more
// digits are minutes, so the degrees need no zero padding.
func parseHemisphereCoord(s string, degDigits int, positive, negative string) (float64, error) {
	digits := len(s) - 1
	if digits < 1 || digits > degDigits+2 {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}
	degEnd := len(s)
	if digits > degDigits {
		degEnd -= 2
	}

	var sign float64
	switch s[:1] {
	case positive:
		sign = 1
	case negative:
		sign = -1
	default:
		return 0, fmt.Errorf("invalid hemisphere in %q", s)
	}

	deg, err := strconv.Atoi(s[1:degEnd])
	if err != nil {
		return 0, fmt.Errorf("invalid degrees in %q", s)
	}
	min := 0
	if degEnd < len(s) {
		min, err = strconv.Atoi(s[degEnd:])
		if err != nil || min > 59 {
			return 0, fmt.Errorf("invalid minutes in %q", s)
		}
	}

	limit := 90
	if degDigits == 3 {
		limit = 180
	}
	value := float64(deg) + float64(min)/60.0
	if value > float64(limit) {
		return 0, fmt.Errorf("coordinate %q out of range", s)
	}
	return sign * value, nil
}

// FormatLatitude renders decimal degrees as N6030, or N60 when minutes
// are not wanted.
func FormatLatitude(v float64, withMinutes bool) string {
	return formatHemisphereCoord(v, 2, "N", "S", withMinutes)
}

// FormatLongitude renders decimal degrees as E02500, or E025 when minutes
// are not wanted.
func FormatLongitude(v float64, withMinutes bool) string {
	return formatHemisphereCoord(v, 3, "E", "W", withMinutes)
}

func formatHemisphereCoord(v float64, degDigits int, positive, negative string, withMinutes bool) string {
	hemisphere := positive
	if v < 0 || (v == 0 && math.Signbit(v)) {
		hemisphere = negative
		v = -v
	}
	totalMinutes := int(math.Round(v * 60))
	deg := totalMinutes / 60
	minutes := totalMinutes % 60
	if !withMinutes {
		return fmt.Sprintf("%s%0*d", hemisphere, degDigits, int(math.Round(v)))
	}
	return fmt.Sprintf("%s%0*d%02d", hemisphere, degDigits, deg, minutes)
}
