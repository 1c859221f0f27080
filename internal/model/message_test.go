package model

import (
	"testing"
	"time"
)

func TestRestamped(t *testing.T) {
	first := time.Date(2024, time.March, 5, 10, 55, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	metar := &METAR{Translation: Translation{TranslatedTAC: "METAR EFHK=", TranslationTime: first}, Aerodrome: "EFHK"}
	b := &Bulletin{
		Translation: Translation{TranslationTime: first},
		Messages:    []Message{metar},
	}

	got := Restamped(b, later).(*Bulletin)
	if !got.TranslationTime.Equal(later) || !got.Messages[0].Translated().TranslationTime.Equal(later) {
		t.Errorf("restamped times = %v, %v", got.TranslationTime, got.Messages[0].Translated().TranslationTime)
	}
	if got.Messages[0].Translated().TranslatedTAC != "METAR EFHK=" {
		t.Errorf("translated TAC lost")
	}
	if !b.TranslationTime.Equal(first) || !metar.TranslationTime.Equal(first) {
		t.Errorf("original modified: %v, %v", b.TranslationTime, metar.TranslationTime)
	}

	if Restamped(nil, later) != nil {
		t.Error("nil message restamped")
	}
}
