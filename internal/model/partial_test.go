package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPartialCompare(t *testing.T) {
	tests := []struct {
		name       string
		a, b       PartialDateTime
		wantEqual  bool
		wantBefore bool
	}{
		{"same", DayHour(1, 9), DayHour(1, 9), true, false},
		{"earlier hour", DayHour(1, 9), DayHour(1, 15), false, true},
		{"day decides", DayHour(1, 23), DayHour(2, 0), false, true},
		{"missing day ignored", HourMinute(15, 30), DayHourMinute(1, 15, 30), true, false},
		{"minute only when both", DayHour(1, 15), DayHourMinute(1, 15, 30), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.wantEqual {
				t.Errorf("Equal() = %v, want %v", got, tt.wantEqual)
			}
			if got := tt.a.Before(tt.b); got != tt.wantBefore {
				t.Errorf("Before() = %v, want %v", got, tt.wantBefore)
			}
		})
	}
}

func TestPartialValidate(t *testing.T) {
	valid := []PartialDateTime{DayHour(31, 24), HourMinute(0, 59), DayHourMinute(1, 24, 0)}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("%s: unexpected error %v", p, err)
		}
	}
	invalid := []PartialDateTime{DayHour(0, 1), DayHour(32, 1), HourMinute(25, 0), HourMinute(1, 60), DayHourMinute(1, 24, 30)}
	for _, p := range invalid {
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected error", p)
		}
	}
}

func TestPartialStringRoundTrip(t *testing.T) {
	for _, p := range []PartialDateTime{DayHour(1, 9), HourMinute(15, 30), DayHourMinute(8, 1, 0), {}} {
		back, err := ParsePartial(p.String())
		if err != nil {
			t.Fatalf("ParsePartial(%q): %v", p.String(), err)
		}
		if back != p {
			t.Errorf("round trip of %q gave %+v", p.String(), back)
		}
	}

	b, err := json.Marshal(DayHour(2, 9))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"02T09:--"` {
		t.Errorf("json = %s", b)
	}
}

func TestPartialResolve(t *testing.T) {
	ref := time.Date(2024, 3, 31, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		p    PartialDateTime
		want time.Time
	}{
		{"same day", DayHourMinute(31, 8, 25), time.Date(2024, 3, 31, 8, 25, 0, 0, time.UTC)},
		{"next month", DayHour(1, 6), time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC)},
		{"earlier in month", DayHour(29, 12), time.Date(2024, 3, 29, 12, 0, 0, 0, time.UTC)},
		{"hour 24 rolls over", DayHour(31, 24), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"no day", HourMinute(21, 30), time.Date(2024, 3, 31, 21, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.p.Resolve(ref)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := (PartialDateTime{}).Resolve(ref); err == nil {
		t.Error("expected error without hour")
	}
}
