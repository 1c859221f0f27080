// Package patterns provides the placeholder regex compiler used to declare
// token recognisers, plus coordinate helpers.
// This file contains the base patterns for use with the Compiler.

package patterns

// BasePatterns defines reusable regex components for pattern composition.
// These are referenced in format patterns using {PATTERN_NAME} syntax.
// Numeric parts accept any digits so that an out of range value is still
// recognised, and then reported as a syntax error.
var BasePatterns = map[string]string{
	// Location indicators.
	"ICAO": `[A-Z]{4}`,

	// Time groups.
	"DD":   `\d{2}`,
	"HH":   `\d{2}`,
	"MM":   `\d{2}`,
	"YYYY": `\d{4}`,

	// Wind.
	"WIND_DIR":  `\d{3}|VRB`,
	"WIND_SPD":  `\d{2,3}`,
	"WIND_UNIT": `KT|MPS|KMH`,

	// Visibility and clouds.
	"VIS":         `\d{4}`,
	"COMPASS8":    `N|NE|E|SE|S|SW|W|NW`,
	"COMPASS16":   `N|NNE|NE|ENE|E|ESE|SE|SSE|S|SSW|SW|WSW|W|WNW|NW|NNW`,
	"CLOUD_COVER": `FEW|SCT|BKN|OVC`,
	"CLOUD_TYPE":  `CB|TCU`,

	// Weather codes.
	"WX_INTENSITY":  `[-+]|VC`,
	"WX_DESCRIPTOR": `MI|BC|PR|DR|BL|SH|TS|FZ`,
	"WX_PHENOMENA":  `(?:DZ|RA|SN|SG|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PO|SQ|FC|SS|DS){1,3}`,

	// Temperatures.
	"TEMP": `M?\d{2}`,

	// Runways.
	"RUNWAY": `\d{2}[LCR]?`,

	// Coordinates: degrees with optional minutes. Advisories leave out
	// the zero padding of the degrees (W75, W2000).
	"LAT": `[NS]\d{1,2}(?:\d{2})?`,
	"LON": `[EW]\d{1,3}(?:\d{2})?`,

	// Levels.
	"FL":     `FL\d{3}`,
	"HEIGHT": `\d{4,5}(?:FT|M)`,
	"LEVEL":  `FL\d{3}|\d{4,5}(?:FT|M)`,

	// SIGMET sequence numbers (1, A01, M05).
	"SIGMET_SEQ": `[A-Z]?\d{1,2}|[A-Z]\d{2}`,
}
