package converter

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"tac_converter/internal/conversion"
)

type call struct {
	op     string
	family conversion.Family
	status conversion.Status
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) ConversionCompleted(op string, f conversion.Family, s conversion.Status, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{op, f, s})
}

var epoch = time.Date(2024, time.March, 5, 10, 55, 0, 0, time.UTC)

func newTestConverter() (*Converter, *recorder) {
	rec := &recorder{}
	c := New(
		WithClock(clockwork.NewFakeClockAt(epoch)),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRecorder(rec),
	)
	return c, rec
}

func TestParseDispatch(t *testing.T) {
	tests := []struct {
		name   string
		tac    string
		hints  conversion.Hints
		family conversion.Family
		where  string
	}{
		{"metar", "METAR EFHK 051050Z 22005KT CAVOK 15/08 Q1021 NOSIG=", conversion.Hints{}, conversion.FamilyMETAR, "EFHK"},
		{"speci", "SPECI EFHK 051050Z 22005KT CAVOK 15/08 Q1021=", conversion.Hints{}, conversion.FamilySPECI, "EFHK"},
		{"taf", "TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020=", conversion.Hints{}, conversion.FamilyTAF, "EFHK"},
		{
			"sigmet",
			"EFIN SIGMET 2 VALID 101300/101600 EFHK-\nEFIN FINLAND FIR CNL SIGMET 1 101200/101600=",
			conversion.Hints{}, conversion.FamilySIGMET, "EFIN",
		},
		{
			"bulletin",
			"FTFI33 EFPP 010800\nTAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020=",
			conversion.Hints{}, conversion.FamilyBulletin, "EFPP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestConverter()
			out, err := c.Parse(tt.tac, tt.hints)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if out.Family != tt.family {
				t.Errorf("family = %s, want %s", out.Family, tt.family)
			}
			if out.Message == nil {
				t.Fatalf("no message, status %s, issues %v", out.Status, out.Issues)
			}
			if tt.where != "" && out.Message.Location() != tt.where {
				t.Errorf("location = %q, want %q", out.Message.Location(), tt.where)
			}
			tr := out.Message.Translated()
			if tr.TranslatedTAC != tt.tac || !tr.TranslationTime.Equal(epoch) {
				t.Errorf("translation = %+v", tr)
			}
			if len(rec.calls) != 1 || rec.calls[0].op != "parse" || rec.calls[0].status != out.Status {
				t.Errorf("recorded %+v", rec.calls)
			}
		})
	}
}

func TestFamily(t *testing.T) {
	c, _ := newTestConverter()
	tests := []struct {
		tac   string
		hints conversion.Hints
		want  conversion.Family
	}{
		{"METAR EFHK 051050Z CAVOK=", conversion.Hints{}, conversion.FamilyMETAR},
		{"EFIN AIRMET 1 VALID 101200/101600 EFHK-", conversion.Hints{}, conversion.FamilyAIRMET},
		{"SWX ADVISORY\nDTG: 20161108/0100Z", conversion.Hints{}, conversion.FamilySWX},
		{"SAFI31 EFPP 051050\nMETAR EFHK 051050Z CAVOK=", conversion.Hints{}, conversion.FamilyBulletin},
		{"EFHK 051050Z CAVOK=", conversion.Hints{Family: conversion.FamilyMETAR}, conversion.FamilyMETAR},
		{"EFHK 051050Z CAVOK=", conversion.Hints{}, conversion.FamilyUnknown},
	}
	for _, tt := range tests {
		if got := c.Family(tt.tac, tt.hints); got != tt.want {
			t.Errorf("Family(%q) = %s, want %s", tt.tac, got, tt.want)
		}
	}
}

func TestParseKeepsTranslationTime(t *testing.T) {
	c, _ := newTestConverter()
	at := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	out, err := c.Parse("TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020=", conversion.Hints{TranslationTime: at})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Message.Translated().TranslationTime; !got.Equal(at) {
		t.Errorf("translation time = %v", got)
	}
}

func TestParseUnknownFamily(t *testing.T) {
	c, rec := newTestConverter()
	_, err := c.Parse("HELLO WORLD", conversion.Hints{})
	if !errors.Is(err, ErrUnknownFamily) {
		t.Fatalf("err = %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0].status != conversion.StatusFail {
		t.Errorf("recorded %+v", rec.calls)
	}
}

func TestParseFailureHasNoMessage(t *testing.T) {
	c, _ := newTestConverter()
	out, err := c.Parse("TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020", conversion.Hints{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != conversion.StatusFail || out.Message != nil {
		t.Errorf("got %s %v", out.Status, out.Message)
	}
	if out.Family != conversion.FamilyTAF {
		t.Errorf("family = %s", out.Family)
	}
}

func TestSerialize(t *testing.T) {
	const tac = "TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020\nBECMG 0114/0116 BKN020="

	c, rec := newTestConverter()
	out, err := c.Parse(tac, conversion.Hints{})
	if err != nil {
		t.Fatal(err)
	}
	res := c.Serialize(out.Message, conversion.Hints{})
	if res.Status != conversion.StatusSuccess || *res.Message != tac {
		t.Errorf("got %s %q, issues %v", res.Status, *res.Message, res.Issues)
	}
	if last := rec.calls[len(rec.calls)-1]; last.op != "serialize" || last.family != conversion.FamilyTAF {
		t.Errorf("recorded %+v", last)
	}

	if res := c.Serialize(nil, conversion.Hints{}); res.Status != conversion.StatusFail {
		t.Errorf("nil message status = %s", res.Status)
	}
}

func TestLex(t *testing.T) {
	c, _ := newTestConverter()
	seq := c.Lex("METAR EFHK 051052Z blaablaa 9999=", conversion.Hints{})
	views := Tokens(seq)

	want := []struct{ text, kind, status string }{
		{"METAR", "METAR_START", "OK"},
		{"EFHK", "AERODROME_DESIGNATOR", "OK"},
		{"051052Z", "ISSUE_TIME", "OK"},
		{"blaablaa", "UNRECOGNIZED", "UNRECOGNIZED"},
		{"9999", "HORIZONTAL_VISIBILITY", "OK"},
		{"=", "END_TOKEN", "OK"},
	}
	if len(views) != len(want) {
		t.Fatalf("got %d tokens: %+v", len(views), views)
	}
	for i, w := range want {
		v := views[i]
		if v.Text != w.text || v.Kind != w.kind || v.Status != w.status {
			t.Errorf("token %d = %s %s %s, want %+v", i, v.Text, v.Kind, v.Status, w)
		}
	}
	if views[1].Slots["VALUE"] != "EFHK" {
		t.Errorf("aerodrome slots = %v", views[1].Slots)
	}
}

func TestCandidates(t *testing.T) {
	c, _ := newTestConverter()

	got := c.Candidates("9999")
	if !slices.Contains(got, "visibility") {
		t.Errorf("candidates of 9999 = %v", got)
	}
	// Family and position rules do not narrow the candidates.
	if got := c.Candidates("EFHK"); !slices.Contains(got, "aerodrome") || !slices.Contains(got, "remark") {
		t.Errorf("candidates of EFHK = %v", got)
	}
	if got := c.Candidates("a b c d e f"); len(got) != 0 {
		t.Errorf("candidates of a long text = %v", got)
	}
}
