package reconstruct

import (
	"math"
	"reflect"
	"testing"

	"tac_converter/internal/model"
)

func TestLevelText(t *testing.T) {
	fl := func(v int) *model.Altitude { return &model.Altitude{Value: v, Unit: "FL"} }
	tests := []struct {
		level *model.Level
		want  string
	}{
		{nil, ""},
		{&model.Level{Lower: fl(250), Upper: fl(350)}, "FL250/350"},
		{&model.Level{Surface: true, Upper: fl(100)}, "SFC/FL100"},
		{&model.Level{Lower: &model.Altitude{Value: 3000, Unit: "FT"}, Upper: fl(100)}, "3000FT/FL100"},
		{&model.Level{Modifier: "ABV", Lower: fl(340)}, "ABV FL340"},
		{&model.Level{Modifier: "TOP BLW", Lower: fl(50)}, "TOP BLW FL050"},
		{&model.Level{Lower: &model.Altitude{Value: 900, Unit: "M"}}, "0900M"},
	}
	for _, tt := range tests {
		if got := levelText(tt.level); got != tt.want {
			t.Errorf("levelText(%+v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestTemperature(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{12, "12"},
		{-2, "M02"},
		{math.Copysign(0, -1), "M00"},
		{0, "00"},
	}
	for _, tt := range tests {
		if got := temperature(tt.v); got != tt.want {
			t.Errorf("temperature(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestLatLon(t *testing.T) {
	tests := []struct {
		lat, lon float64
		minutes  bool
		want     string
	}{
		{60.5, 25, true, "N6030 E02500"},
		{60, -25, false, "N60 W025"},
		{-60.5, 25, false, "S6030 E02500"},
	}
	for _, tt := range tests {
		if got := latLon(tt.lat, tt.lon, tt.minutes); got != tt.want {
			t.Errorf("latLon(%v, %v, %v) = %q, want %q", tt.lat, tt.lon, tt.minutes, got, tt.want)
		}
	}
}

func TestPartialText(t *testing.T) {
	tests := []struct {
		p    model.PartialDateTime
		want string
	}{
		{model.DayHourMinute(1, 8, 25), "010825"},
		{model.DayHour(2, 9), "0209"},
		{model.HourMinute(12, 10), "1210"},
		{model.PartialDateTime{}, ""},
	}
	for _, tt := range tests {
		if got := partialText(tt.p); got != tt.want {
			t.Errorf("partialText(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestPadLabel(t *testing.T) {
	if got := padLabel("DTG:", 10); got != "DTG:     " {
		t.Errorf("got %q", got)
	}
	if got := padLabel("ADVISORY NR:", 5); got != "ADVISORY NR:" {
		t.Errorf("got %q", got)
	}
	if got := padLabel("DTG:", 0); got != "DTG:" {
		t.Errorf("got %q", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		tokens []string
		limit  int
		want   []string
	}{
		{[]string{"AAA", "BBB", "CCC"}, 0, []string{"AAA BBB CCC"}},
		{[]string{"AAA", "BBB", "CCC"}, 7, []string{"AAA BBB", "CCC"}},
		{[]string{"AAAAAAAAA", "B"}, 4, []string{"AAAAAAAAA", "B"}},
		{[]string{"LBL:   ", "X"}, 5, []string{"LBL:", "X"}},
	}
	for _, tt := range tests {
		if got := wrap(tt.tokens, tt.limit); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("wrap(%q, %d) = %q, want %q", tt.tokens, tt.limit, got, tt.want)
		}
	}
}
