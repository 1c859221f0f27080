package patterns

import (
	"math"
	"testing"
)

// almostEqual checks if two floats are equal within a tolerance.
func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		lat     bool
		want    float64
		wantErr bool
	}{
		{name: "latitude with minutes", input: "N6030", lat: true, want: 60.5},
		{name: "latitude degrees only", input: "N80", lat: true, want: 80},
		{name: "southern latitude", input: "S1215", lat: true, want: -12.25},
		{name: "longitude with minutes", input: "E02500", want: 25},
		{name: "western longitude", input: "W180", want: -180},
		{name: "eastern band limit", input: "E18000", want: 180},
		{name: "bad hemisphere", input: "E6000", lat: true, wantErr: true},
		{name: "minutes out of range", input: "N6075", lat: true, wantErr: true},
		{name: "latitude out of range", input: "N9100", lat: true, wantErr: true},
		{name: "unpadded longitude with minutes", input: "W2000", want: -20},
		{name: "unpadded longitude", input: "W75", want: -75},
		{name: "unpadded latitude with minutes", input: "N830", lat: true, want: 8.5},
		{name: "too many digits", input: "E180000", wantErr: true},
		{name: "no digits", input: "N", lat: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got float64
			var err error
			if tt.lat {
				got, err = ParseLatitude(tt.input)
			} else {
				got, err = ParseLongitude(tt.input)
			}
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tt.want, 0.0001) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatCoordinates(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatLatitude(60.5, true), "N6030"},
		{FormatLatitude(-12.25, true), "S1215"},
		{FormatLatitude(80, false), "N80"},
		{FormatLongitude(25, true), "E02500"},
		{FormatLongitude(-180, false), "W180"},
		{FormatLongitude(-180, true), "W18000"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	for _, s := range []string{"N6030", "S0000", "N0015"} {
		v, err := ParseLatitude(s)
		if err != nil {
			t.Fatalf("ParseLatitude(%q): %v", s, err)
		}
		if back := FormatLatitude(v, true); back != s {
			t.Errorf("round trip of %q gave %q", s, back)
		}
	}
}
