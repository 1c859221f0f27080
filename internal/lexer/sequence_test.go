package lexer

import (
	"strings"
	"testing"

	"tac_converter/internal/conversion"
)

func TestSequenceSplitBy(t *testing.T) {
	seq := LexMessage(tafWithNSW, conversion.Hints{})
	parts := seq.SplitBy(KindForecastChangeIndicator)
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}
	if parts[0].Len() != 8 {
		t.Errorf("first part has %d tokens, want 8", parts[0].Len())
	}
	if parts[1].Len() != 4 {
		t.Errorf("second part has %d tokens, want 4", parts[1].Len())
	}
	if got := parts[1].First().Kind; got != KindForecastChangeIndicator {
		t.Errorf("second part starts with %s", got)
	}
	// Positions within a part are relative; indexes stay absolute.
	if got := parts[1].Token(1).Index; got != 9 {
		t.Errorf("Index = %d, want 9", got)
	}
	if parts[1].Token(4) != nil {
		t.Error("navigation escaped the part")
	}

	leading := LexMessage("FM011530 00000KT CAVOK=", conversion.Hints{Family: conversion.FamilyTAF}).
		SplitBy(KindForecastChangeIndicator)
	if len(leading) != 2 || leading[0].Len() != 0 {
		t.Errorf("leading marker: %d parts, first len %d", len(leading), leading[0].Len())
	}
}

func TestSequenceFind(t *testing.T) {
	seq := LexMessage(metarWithGarbage, conversion.Hints{})

	if got := seq.Find(KindCloud); got != 5 {
		t.Errorf("Find(CLOUD) = %d, want 5", got)
	}
	if got := seq.FindNext(KindCloud, 5); got != 6 {
		t.Errorf("FindNext(CLOUD, 5) = %d, want 6", got)
	}
	if got := seq.FindNext(KindCloud, 6); got != -1 {
		t.Errorf("FindNext(CLOUD, 6) = %d, want -1", got)
	}
	if got := seq.FindAll(KindCloud); len(got) != 2 {
		t.Errorf("FindAll(CLOUD) = %v", got)
	}
	if seq.Has(KindSurfaceWind) {
		t.Error("Has(SURFACE_WIND) = true")
	}
	if seq.Last().Kind != KindEndToken {
		t.Errorf("Last() = %s", seq.Last())
	}
	if got := strings.Join(seq.Texts(), " "); got != "METAR EFHK 051052Z blaablaa 9999 FEW033 BKN110 M00/M02 Q1005 NOSIG =" {
		t.Errorf("Texts() = %q", got)
	}
}

func TestSequenceCheckBefore(t *testing.T) {
	seq := LexMessage(tafWithNSW, conversion.Hints{})

	if issue := seq.CheckBefore(4, KindHorizontalVisibility, KindCloud); issue != nil {
		t.Errorf("wind before visibility: unexpected issue %v", issue)
	}
	issue := seq.CheckBefore(5, KindSurfaceWind)
	if issue == nil {
		t.Fatal("visibility after wind: expected an issue")
	}
	if issue.Type != conversion.IssueSyntax {
		t.Errorf("issue type = %s", issue.Type)
	}
	if !strings.Contains(issue.Message, "'5000'") {
		t.Errorf("issue message = %q", issue.Message)
	}
}

func TestSequenceCheckAtMostOnce(t *testing.T) {
	seq := LexMessage("TAF EFHK 010825Z 0109/0209 0109/0209 25015KT CAVOK=", conversion.Hints{})
	issues := seq.CheckAtMostOnce(KindAerodromeDesignator, KindIssueTime, KindValidTime)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(issues), issues)
	}
	if !strings.Contains(issues[0].Message, "VALID_TIME") {
		t.Errorf("message = %q", issues[0].Message)
	}
}

func TestSequenceContentBetween(t *testing.T) {
	seq := LexMessage(metarWithGarbage, conversion.Hints{})
	content := seq.ContentBetween(2, seq.Len()-1, KindCloud)
	var kinds []string
	for _, tok := range content {
		kinds = append(kinds, tok.Kind.String())
	}
	want := "HORIZONTAL_VISIBILITY AIR_DEWPOINT_TEMPERATURE AIR_PRESSURE_QNH TREND_CHANGE_INDICATOR"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("ContentBetween = %q, want %q", got, want)
	}
}
