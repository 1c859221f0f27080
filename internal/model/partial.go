// Package model contains the structured representation of converted
// bulletin messages.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PartialField marks which parts of a PartialDateTime are present.
type PartialField uint8

const (
	FieldDay PartialField = 1 << iota
	FieldHour
	FieldMinute
)

// PartialDateTime is a time of day with an optional day of month, as
// written in bulletins. It is completed against a reference time outside
// the parsers.
type PartialDateTime struct {
	Day    int
	Hour   int
	Minute int
	Fields PartialField
}

// NewPartial builds a PartialDateTime. Negative values mean "not given".
func NewPartial(day, hour, minute int) PartialDateTime {
	var p PartialDateTime
	if day >= 0 {
		p.Day = day
		p.Fields |= FieldDay
	}
	if hour >= 0 {
		p.Hour = hour
		p.Fields |= FieldHour
	}
	if minute >= 0 {
		p.Minute = minute
		p.Fields |= FieldMinute
	}
	return p
}

// DayHour is a day and hour without minutes.
func DayHour(day, hour int) PartialDateTime {
	return NewPartial(day, hour, -1)
}

// DayHourMinute is a fully given day, hour and minute.
func DayHourMinute(day, hour, minute int) PartialDateTime {
	return NewPartial(day, hour, minute)
}

// HourMinute is an hour and minute without day.
func HourMinute(hour, minute int) PartialDateTime {
	return NewPartial(-1, hour, minute)
}

// Has reports whether all of the given fields are present.
func (p PartialDateTime) Has(f PartialField) bool {
	return p.Fields&f == f
}

// IsZero reports whether nothing is present.
func (p PartialDateTime) IsZero() bool {
	return p.Fields == 0
}

// Validate checks the ranges of the present fields.
func (p PartialDateTime) Validate() error {
	if p.Has(FieldDay) && (p.Day < 1 || p.Day > 31) {
		return fmt.Errorf("day %d out of range", p.Day)
	}
	if p.Has(FieldHour) && (p.Hour < 0 || p.Hour > 24) {
		return fmt.Errorf("hour %d out of range", p.Hour)
	}
	if p.Has(FieldMinute) && (p.Minute < 0 || p.Minute > 59) {
		return fmt.Errorf("minute %d out of range", p.Minute)
	}
	if p.Has(FieldHour|FieldMinute) && p.Hour == 24 && p.Minute != 0 {
		return fmt.Errorf("time 24:%02d out of range", p.Minute)
	}
	return nil
}

// Equal compares the fields present in both values.
func (p PartialDateTime) Equal(o PartialDateTime) bool {
	return p.compare(o) == 0
}

// Before compares the fields present in both values, day first.
func (p PartialDateTime) Before(o PartialDateTime) bool {
	return p.compare(o) < 0
}

func (p PartialDateTime) compare(o PartialDateTime) int {
	common := p.Fields & o.Fields
	pairs := []struct {
		f    PartialField
		a, b int
	}{
		{FieldDay, p.Day, o.Day},
		{FieldHour, p.Hour, o.Hour},
		{FieldMinute, p.Minute, o.Minute},
	}
	for _, pr := range pairs {
		if common&pr.f == 0 {
			continue
		}
		if pr.a < pr.b {
			return -1
		}
		if pr.a > pr.b {
			return 1
		}
	}
	return 0
}

// Resolve completes the value to the instant closest to ref. A missing day
// is taken from ref, a missing minute is zero, and hour 24 rolls over to
// the next day.
func (p PartialDateTime) Resolve(ref time.Time) (time.Time, error) {
	if !p.Has(FieldHour) {
		return time.Time{}, fmt.Errorf("cannot resolve %s without hour", p)
	}
	if err := p.Validate(); err != nil {
		return time.Time{}, err
	}
	ref = ref.UTC()
	day := ref.Day()
	if p.Has(FieldDay) {
		day = p.Day
	}

	var best time.Time
	var bestDiff time.Duration = -1
	for _, monthOffset := range []int{-1, 0, 1} {
		base := time.Date(ref.Year(), ref.Month()+time.Month(monthOffset), 1, 0, 0, 0, 0, time.UTC)
		candidate := time.Date(base.Year(), base.Month(), day, 0, 0, 0, 0, time.UTC)
		if candidate.Month() != base.Month() {
			continue
		}
		candidate = candidate.Add(time.Duration(p.Hour)*time.Hour + time.Duration(p.Minute)*time.Minute)
		diff := candidate.Sub(ref)
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = candidate, diff
		}
	}
	if bestDiff < 0 {
		return time.Time{}, fmt.Errorf("day %d does not exist near %s", day, ref.Format("2006-01"))
	}
	return best, nil
}

// String renders "DDTHH:MM" with "--" for each missing part.
func (p PartialDateTime) String() string {
	part := func(f PartialField, v int) string {
		if p.Fields&f == 0 {
			return "--"
		}
		return fmt.Sprintf("%02d", v)
	}
	return part(FieldDay, p.Day) + "T" + part(FieldHour, p.Hour) + ":" + part(FieldMinute, p.Minute)
}

// ParsePartial reads the String form back.
func ParsePartial(s string) (PartialDateTime, error) {
	dayPart, rest, ok := strings.Cut(s, "T")
	if !ok {
		return PartialDateTime{}, fmt.Errorf("invalid partial time %q", s)
	}
	hourPart, minutePart, ok := strings.Cut(rest, ":")
	if !ok {
		return PartialDateTime{}, fmt.Errorf("invalid partial time %q", s)
	}
	values := make([]int, 3)
	for i, part := range []string{dayPart, hourPart, minutePart} {
		if part == "--" {
			values[i] = -1
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || len(part) != 2 {
			return PartialDateTime{}, fmt.Errorf("invalid partial time %q", s)
		}
		values[i] = n
	}
	p := NewPartial(values[0], values[1], values[2])
	return p, p.Validate()
}

// MarshalText implements encoding.TextMarshaler.
func (p PartialDateTime) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PartialDateTime) UnmarshalText(b []byte) error {
	v, err := ParsePartial(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Period is a start and an optional end.
type Period struct {
	Start PartialDateTime `json:"start"`
	End   PartialDateTime `json:"end"`
}
