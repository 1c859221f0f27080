package reconstruct

import (
	"strings"
	"testing"

	"tac_converter/internal/conversion"
	"tac_converter/internal/model"
	"tac_converter/internal/parser"
)

var (
	strict  = conversion.Hints{}
	lenient = conversion.Hints{Mode: conversion.ModeAllowSyntaxErrors}
)

func parseAny(t *testing.T, p *parser.Parser, f conversion.Family, tac string, hints conversion.Hints) model.Message {
	t.Helper()
	var (
		msg    model.Message
		status conversion.Status
		issues conversion.Issues
	)
	switch f {
	case conversion.FamilyMETAR, conversion.FamilySPECI:
		r := p.METAR(tac, hints)
		msg, status, issues = r.Message, r.Status, r.Issues
	case conversion.FamilyTAF:
		r := p.TAF(tac, hints)
		msg, status, issues = r.Message, r.Status, r.Issues
	case conversion.FamilySIGMET, conversion.FamilyAIRMET:
		r := p.SIGMET(tac, hints)
		msg, status, issues = r.Message, r.Status, r.Issues
	case conversion.FamilySWX:
		r := p.SWX(tac, hints)
		msg, status, issues = r.Message, r.Status, r.Issues
	case conversion.FamilyBulletin:
		r := p.Bulletin(tac, hints)
		msg, status, issues = r.Message, r.Status, r.Issues
	default:
		t.Fatalf("no parser for %s", f)
	}
	if status == conversion.StatusFail {
		t.Fatalf("parse %s failed: %v", f, issues)
	}
	return msg
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		family conversion.Family
		tac    string
	}{
		{
			name:   "metar",
			family: conversion.FamilyMETAR,
			tac: "METAR EFHK 051052Z 24012G25KT 200V280 4000 1500NE R04R/P1500N -RA BR BKN008 OVC015CB " +
				"12/11 Q0998 RERA WS R04R BECMG FM1130 TL1200 9999 NSW=",
		},
		{
			name:   "metar cavok",
			family: conversion.FamilyMETAR,
			tac:    "METAR EFHK 051050Z 22005KT CAVOK 15/08 Q1021 NOSIG=",
		},
		{
			name:   "taf",
			family: conversion.FamilyTAF,
			tac: "TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020\n" +
				"FM011200 27010KT 9999 SCT030\n" +
				"BECMG 0114/0116 BKN020\n" +
				"FM011800 30012KT CAVOK=",
		},
		{
			name:   "taf prob tempo",
			family: conversion.FamilyTAF,
			tac: "TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020\n" +
				"PROB30 TEMPO 0112/0114 4000 SHRA=",
		},
		{
			name:   "sigmet",
			family: conversion.FamilySIGMET,
			tac: "EFIN SIGMET 1 VALID 101200/101600 EFHK-\n" +
				"EFIN FINLAND FIR SEV TURB OBS AT 1210Z WI N6030 E02500 - N6100 E02600 - N6030 E02700 - N6030 E02500 " +
				"FL250/350 MOV E 15KT NC=",
		},
		{
			name:   "sigmet cancellation",
			family: conversion.FamilySIGMET,
			tac:    "EFIN SIGMET 2 VALID 101300/101600 EFHK-\nEFIN FINLAND FIR CNL SIGMET 1 101200/101600=",
		},
		{
			name:   "swx",
			family: conversion.FamilySWX,
			tac: "SWX ADVISORY\n" +
				"STATUS: TEST\n" +
				"DTG: 20161108/0100Z\n" +
				"SWXC: DONLON\n" +
				"ADVISORY NR: 2016/2\n" +
				"SWX EFFECT: HF COM MOD AND GNSS MOD\n" +
				"OBS SWX: 08/0100Z HNH HSH E18000 - W18000 ABV FL340\n" +
				"FCST SWX +6 HR: 08/0700Z HNH HSH E18000 - W18000\n" +
				"RMK: LOW LVL GEOMAGNETIC STORMING\n" +
				"NXT ADVISORY: 20161108/0700Z=",
		},
		{
			name:   "bulletin",
			family: conversion.FamilyBulletin,
			tac: "FTFI33 EFPP 010800\n" +
				"TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020=\n" +
				"TAF EFTU 010825Z 0109/0209 24010KT CAVOK=",
		},
	}

	p := parser.New(nil)
	s := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := parseAny(t, p, tt.family, tt.tac, strict)
			res := s.Serialize(msg, strict)
			if res.Status != conversion.StatusSuccess {
				t.Fatalf("status = %s, issues %v", res.Status, res.Issues)
			}
			if got := *res.Message; got != tt.tac {
				t.Errorf("got\n%s\nwant\n%s", got, tt.tac)
			}
		})
	}
}

func TestSerializeLenientParses(t *testing.T) {
	tests := []struct {
		name   string
		family conversion.Family
		tac    string
		want   string
	}{
		{
			name:   "metar with unknown token",
			family: conversion.FamilyMETAR,
			tac:    "METAR EFHK 051052Z blaablaa 9999 FEW033 BKN110 M00/M02 Q1005 NOSIG=",
			want:   "METAR EFHK 051052Z 9999 FEW033 BKN110 M00/M02 Q1005 NOSIG=",
		},
		{
			name:   "taf with nsw in base forecast",
			family: conversion.FamilyTAF,
			tac:    "TAF EFHK 010825Z 0109/0209 25015KT 5000 NSW NSC\nFM011530 00000KT CAVOK=",
			want:   "TAF EFHK 010825Z 0109/0209 25015KT 5000\nFM011530 00000KT CAVOK=",
		},
	}

	p := parser.New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := parseAny(t, p, tt.family, tt.tac, lenient)
			res := New(nil).Serialize(msg, strict)
			if res.Status != conversion.StatusSuccess {
				t.Fatalf("status = %s, issues %v", res.Status, res.Issues)
			}
			if *res.Message != tt.want {
				t.Errorf("got\n%s\nwant\n%s", *res.Message, tt.want)
			}
		})
	}
}

func TestSerializeCancelledTAF(t *testing.T) {
	taf := &model.TAF{
		Status:    model.TAFCancellation,
		Aerodrome: "EFHK",
		IssueTime: model.DayHourMinute(1, 8, 25),
		Validity:  model.Period{Start: model.DayHour(1, 9), End: model.DayHour(2, 9)},
	}
	res := New(nil).Serialize(taf, strict)
	if res.Status != conversion.StatusSuccess {
		t.Fatalf("status = %s, issues %v", res.Status, res.Issues)
	}
	if want := "TAF AMD EFHK 010825Z 0109/0209 CNL="; *res.Message != want {
		t.Errorf("got %q, want %q", *res.Message, want)
	}
}

func TestSerializeWrapsLines(t *testing.T) {
	const tac = "METAR EFHK 051052Z 24012G25KT 200V280 4000 1500NE R04R/P1500N -RA BR BKN008 OVC015CB " +
		"12/11 Q0998 RERA WS R04R BECMG FM1130 TL1200 9999 NSW="

	msg := parseAny(t, parser.New(nil), conversion.FamilyMETAR, tac, strict)
	res := New(nil).Serialize(msg, conversion.Hints{MaxLineLength: 30})
	if res.Status != conversion.StatusSuccess {
		t.Fatalf("status = %s, issues %v", res.Status, res.Issues)
	}
	lines := strings.Split(*res.Message, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %q", *res.Message)
	}
	for _, line := range lines {
		if len(line) > 30 {
			t.Errorf("line %q longer than 30", line)
		}
	}
	if got, want := strings.Fields(*res.Message), strings.Fields(tac); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("tokens changed:\n%v\n%v", got, want)
	}
}

func TestSerializeSWXPadsLabels(t *testing.T) {
	const tac = "SWX ADVISORY\n" +
		"DTG: 20161108/0100Z\n" +
		"SWXC: DONLON\n" +
		"ADVISORY NR: 2016/2\n" +
		"SWX EFFECT: HF COM MOD\n" +
		"OBS SWX: 08/0100Z HNH E18000 - W18000\n" +
		"NXT ADVISORY: NO FURTHER ADVISORIES="

	p := parser.New(nil)
	msg := parseAny(t, p, conversion.FamilySWX, tac, strict)
	hints := conversion.Hints{SWXLabelEndLength: 20}
	res := New(nil).Serialize(msg, hints)
	if res.Status != conversion.StatusSuccess {
		t.Fatalf("status = %s, issues %v", res.Status, res.Issues)
	}

	lines := strings.Split(*res.Message, "\n")
	if lines[0] != "SWX ADVISORY" {
		t.Errorf("first line = %q", lines[0])
	}
	for _, line := range lines[1:] {
		if line[19] != ' ' || line[20] == ' ' {
			t.Errorf("value not at column 20: %q", line)
		}
	}
	if want := "DTG:                20161108/0100Z"; lines[1] != want {
		t.Errorf("got %q, want %q", lines[1], want)
	}

	again := p.SWX(*res.Message, hints)
	if again.Status != conversion.StatusSuccess {
		t.Fatalf("padded output does not parse: %v", again.Issues)
	}
	if again.Message.NextAdvisory.Type != model.NextAdvisoryNone {
		t.Errorf("next advisory = %+v", again.Message.NextAdvisory)
	}
}

func TestSerializeRemarks(t *testing.T) {
	m := &model.METAR{
		Aerodrome: "EFHK",
		IssueTime: model.DayHourMinute(5, 10, 52),
		Observed:  model.Conditions{CAVOK: true},
		Remarks:   []string{"QFE1002", "A=B", "="},
	}
	res := New(nil).Serialize(m, strict)
	if res.Status != conversion.StatusWithErrors {
		t.Fatalf("status = %s, issues %v", res.Status, res.Issues)
	}
	if want := "METAR EFHK 051052Z CAVOK RMK QFE1002 AB="; *res.Message != want {
		t.Errorf("got %q, want %q", *res.Message, want)
	}
	if got := res.Issues.Count(conversion.IssueOther); got != 2 {
		t.Errorf("got %d OTHER issues, want 2: %v", got, res.Issues)
	}
}

func TestSerializeReportsTokensThatDoNotLexBack(t *testing.T) {
	taf := &model.TAF{
		Aerodrome: "E1",
		IssueTime: model.DayHourMinute(1, 8, 25),
		Validity:  model.Period{Start: model.DayHour(1, 9), End: model.DayHour(2, 9)},
		BaseForecast: &model.TAFBaseForecast{
			Conditions: model.Conditions{CAVOK: true},
		},
	}
	res := New(nil).Serialize(taf, strict)
	if res.Status != conversion.StatusWithErrors {
		t.Fatalf("status = %s", res.Status)
	}
	if len(res.Issues) == 0 || !strings.Contains(res.Issues[0].Message, "Reconstructed token 'E1'") {
		t.Errorf("issues = %v", res.Issues)
	}
}

func TestSerializeUnsupported(t *testing.T) {
	res := New(nil).Serialize(nil, strict)
	if res.Status != conversion.StatusFail || res.Message != nil {
		t.Errorf("got %s %v", res.Status, res.Message)
	}
}

func TestSerializeBulletinPrefixesIssues(t *testing.T) {
	b := &model.Bulletin{
		Heading: model.BulletinHeading{Designator: "SAFI31", Location: "EFPP", IssueTime: model.DayHourMinute(5, 10, 50)},
		Messages: []model.Message{
			&model.METAR{Aerodrome: "EFHK", IssueTime: model.DayHourMinute(5, 10, 50), Observed: model.Conditions{CAVOK: true}},
			&model.METAR{Aerodrome: "EFTU", IssueTime: model.DayHourMinute(5, 10, 50), Remarks: []string{"X="}},
		},
	}
	res := New(nil).Serialize(b, strict)
	if res.Status != conversion.StatusWithErrors {
		t.Fatalf("status = %s", res.Status)
	}
	want := "SAFI31 EFPP 051050\nMETAR EFHK 051050Z CAVOK=\nMETAR EFTU 051050Z RMK X="
	if *res.Message != want {
		t.Errorf("got\n%s\nwant\n%s", *res.Message, want)
	}
	if len(res.Issues) != 1 || !strings.HasPrefix(res.Issues[0].Message, "Message 2: ") {
		t.Errorf("issues = %v", res.Issues)
	}
}
