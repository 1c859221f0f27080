package parser

import (
	"math"
	"testing"

	"tac_converter/internal/conversion"
	"tac_converter/internal/model"
)

const metarWithGarbage = "METAR EFHK 051052Z blaablaa 9999 FEW033 BKN110 M00/M02 Q1005 NOSIG="

func TestMETARLenientSkipsUnrecognised(t *testing.T) {
	res := New(nil).METAR(metarWithGarbage, lenient)
	if res.Status != conversion.StatusWithErrors {
		t.Fatalf("status = %s, issues %v", res.Status, res.Issues)
	}
	if len(res.Issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(res.Issues), res.Issues)
	}
	if issue := res.Issues[0]; issue.Type != conversion.IssueSyntaxError || issueWith(res.Issues, "Missing surface wind") == nil {
		t.Errorf("issue = %v", issue)
	}

	m := res.Message
	if m.Aerodrome != "EFHK" || m.IssueTime != model.DayHourMinute(5, 10, 52) {
		t.Errorf("header = %s %v", m.Aerodrome, m.IssueTime)
	}
	if v := m.Observed.Visibility; v == nil || v.Distance != 10000 || v.Operator != model.OperatorAbove {
		t.Errorf("visibility = %+v", v)
	}
	if c := m.Observed.Clouds; c == nil || len(c.Layers) != 2 || *c.Layers[1].Height != 11000 {
		t.Errorf("clouds = %+v", c)
	}
	if tt := m.Temperatures; tt == nil || tt.Air != 0 || !math.Signbit(tt.Air) || tt.Dewpoint != -2 {
		t.Errorf("temperatures = %+v", tt)
	}
	if p := m.Pressure; p == nil || p.Value != 1005 || p.Unit != "hPa" {
		t.Errorf("pressure = %+v", p)
	}
	if !m.NoSignificantChanges {
		t.Error("NOSIG not set")
	}
}

func TestMETARStrictFailsOnUnrecognised(t *testing.T) {
	res := New(nil).METAR(metarWithGarbage, strict)
	if res.Status != conversion.StatusFail || res.Message != nil {
		t.Fatalf("status = %s", res.Status)
	}
	if len(res.Issues) != 1 || res.Issues[0].Type != conversion.IssueSyntaxError {
		t.Errorf("issues = %v", res.Issues)
	}
}

func TestMETARFull(t *testing.T) {
	const tac = "METAR EFHK 051052Z 24012G25KT 200V280 4000 1500NE R04R/P1500N -RA BR BKN008 OVC015CB " +
		"12/11 Q0998 RERA WS R04R BECMG FM1130 TL1200 9999 NSW="

	res := New(nil).METAR(tac, strict)
	if res.Status != conversion.StatusSuccess {
		t.Fatalf("status = %s, issues %v", res.Status, res.Issues)
	}
	m := res.Message

	w := m.Observed.SurfaceWind
	if w == nil || w.Direction != 240 || w.MeanSpeed != 12 || w.Gust == nil || *w.Gust != 25 || w.Unit != "KT" {
		t.Errorf("wind = %+v", w)
	}
	if m.WindVariation == nil || *m.WindVariation != (model.WindVariation{From: 200, To: 280}) {
		t.Errorf("wind variation = %+v", m.WindVariation)
	}
	if m.Observed.Visibility.Distance != 4000 {
		t.Errorf("visibility = %+v", m.Observed.Visibility)
	}
	if v := m.MinimumVisibility; v == nil || v.Distance != 1500 || v.Direction != "NE" {
		t.Errorf("minimum visibility = %+v", v)
	}
	want := model.RunwayVisualRange{Runway: "04R", Distance: 1500, Operator: model.OperatorAbove, Tendency: "N"}
	if len(m.RunwayVisualRanges) != 1 || m.RunwayVisualRanges[0] != want {
		t.Errorf("rvr = %+v", m.RunwayVisualRanges)
	}
	if len(m.Observed.Weather) != 2 || m.Observed.Weather[0] != "-RA" || m.Observed.Weather[1] != "BR" {
		t.Errorf("weather = %v", m.Observed.Weather)
	}
	layers := m.Observed.Clouds.Layers
	if len(layers) != 2 || *layers[0].Height != 800 || layers[1].Type != "CB" {
		t.Errorf("layers = %+v", layers)
	}
	if m.Pressure.Value != 998 {
		t.Errorf("pressure = %+v", m.Pressure)
	}
	if len(m.RecentWeather) != 1 || m.RecentWeather[0] != "RA" {
		t.Errorf("recent weather = %v", m.RecentWeather)
	}
	if m.WindShear == nil || len(m.WindShear.Runways) != 1 || m.WindShear.Runways[0] != "04R" {
		t.Errorf("wind shear = %+v", m.WindShear)
	}

	if len(m.Trends) != 1 {
		t.Fatalf("got %d trends", len(m.Trends))
	}
	trend := m.Trends[0]
	if trend.Type != model.ChangeBecoming || trend.From != model.HourMinute(11, 30) || trend.Until != model.HourMinute(12, 0) {
		t.Errorf("trend = %+v", trend)
	}
	if !trend.NoSignificantWeather || trend.Visibility == nil {
		t.Errorf("trend conditions = %+v", trend.Conditions)
	}
}

func TestMETARVariants(t *testing.T) {
	tests := []struct {
		name       string
		tac        string
		wantFamily conversion.Family
		wantIssues []conversion.IssueType
		check      func(t *testing.T, m *model.METAR)
	}{
		{
			name:       "speci",
			tac:        "SPECI EFHK 051052Z 24012KT 9999 FEW033 10/05 Q1005=",
			wantFamily: conversion.FamilySPECI,
		},
		{
			name:       "missing",
			tac:        "METAR EFHK 051052Z NIL=",
			wantFamily: conversion.FamilyMETAR,
			check: func(t *testing.T, m *model.METAR) {
				if !m.Missing {
					t.Error("NIL not set")
				}
			},
		},
		{
			name:       "automated with inHg",
			tac:        "METAR KJFK 051051Z AUTO 24012KT 9999 FEW033 10/05 A2992=",
			wantFamily: conversion.FamilyMETAR,
			check: func(t *testing.T, m *model.METAR) {
				if !m.Automated || m.Pressure.Unit != "inHg" || math.Abs(m.Pressure.Value-29.92) > 1e-9 {
					t.Errorf("automated %v pressure %+v", m.Automated, m.Pressure)
				}
			},
		},
		{
			name:       "nosig with trend",
			tac:        "METAR EFHK 051052Z 24012KT 9999 FEW033 10/05 Q1005 NOSIG BECMG 4000 BR=",
			wantFamily: conversion.FamilyMETAR,
			wantIssues: []conversion.IssueType{conversion.IssueLogical},
		},
		{
			name:       "correction after aerodrome",
			tac:        "METAR EFHK COR 051052Z 24012KT 9999 FEW033 10/05 Q1005=",
			wantFamily: conversion.FamilyMETAR,
			wantIssues: []conversion.IssueType{conversion.IssueSyntax},
			check: func(t *testing.T, m *model.METAR) {
				if m.Correction {
					t.Error("misplaced COR applied")
				}
			},
		},
		{
			name:       "visibility after cloud",
			tac:        "METAR EFHK 051052Z 24012KT FEW033 9999 10/05 Q1005=",
			wantFamily: conversion.FamilyMETAR,
			wantIssues: []conversion.IssueType{conversion.IssueSyntax, conversion.IssueMissingData},
			check: func(t *testing.T, m *model.METAR) {
				if m.Observed.Visibility != nil || m.Observed.Clouds == nil {
					t.Errorf("observed = %+v", m.Observed)
				}
			},
		},
		{
			name:       "missing pressure",
			tac:        "METAR EFHK 051052Z 24012KT CAVOK 10/05=",
			wantFamily: conversion.FamilyMETAR,
			wantIssues: []conversion.IssueType{conversion.IssueMissingData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(nil).METAR(tt.tac, strict)
			if res.Message == nil {
				t.Fatalf("no message: %v", res.Issues)
			}
			if got := res.Message.Family(); got != tt.wantFamily {
				t.Errorf("family = %s, want %s", got, tt.wantFamily)
			}
			if len(res.Issues) != len(tt.wantIssues) {
				t.Fatalf("issues = %v, want %v", res.Issues, tt.wantIssues)
			}
			for i, typ := range tt.wantIssues {
				if res.Issues[i].Type != typ {
					t.Errorf("issue %d = %v, want %s", i, res.Issues[i], typ)
				}
			}
			if tt.check != nil {
				tt.check(t, res.Message)
			}
		})
	}
}
