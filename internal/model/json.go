package model

import (
	"encoding/json"
	"fmt"

	"tac_converter/internal/conversion"
)

// taggedMessage carries the family of a bulletin message so it can be
// decoded into the right type.
type taggedMessage struct {
	Family  conversion.Family `json:"family"`
	Message json.RawMessage   `json:"message"`
}

// MarshalJSON tags every bulletin message with its family.
func (b *Bulletin) MarshalJSON() ([]byte, error) {
	out := struct {
		Translation
		Heading  BulletinHeading `json:"heading"`
		Messages []taggedMessage `json:"messages"`
	}{Translation: b.Translation, Heading: b.Heading, Messages: []taggedMessage{}}

	for _, m := range b.Messages {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		out.Messages = append(out.Messages, taggedMessage{Family: m.Family(), Message: raw})
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (b *Bulletin) UnmarshalJSON(data []byte) error {
	var in struct {
		Translation
		Heading  BulletinHeading `json:"heading"`
		Messages []taggedMessage `json:"messages"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.Translation = in.Translation
	b.Heading = in.Heading
	b.Messages = nil
	for i, t := range in.Messages {
		if t.Family == conversion.FamilyBulletin {
			return fmt.Errorf("message %d: nested bulletin", i+1)
		}
		m, err := DecodeMessage(t.Family, t.Message)
		if err != nil {
			return fmt.Errorf("message %d: %w", i+1, err)
		}
		b.Messages = append(b.Messages, m)
	}
	return nil
}

// DecodeMessage decodes the JSON form of a message of family f.
func DecodeMessage(f conversion.Family, data []byte) (Message, error) {
	var m Message
	switch {
	case f == conversion.FamilyTAF:
		m = &TAF{}
	case f.IsObservation():
		m = &METAR{}
	case f.IsSigmet():
		m = &SIGMET{}
	case f == conversion.FamilySWX:
		m = &SpaceWeatherAdvisory{}
	case f == conversion.FamilyBulletin:
		m = &Bulletin{}
	default:
		return nil, fmt.Errorf("cannot decode %s message", f)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}

	switch v := m.(type) {
	case *METAR:
		v.Special = f == conversion.FamilySPECI
	case *SIGMET:
		v.Airmet = f == conversion.FamilyAIRMET
	}
	return m, nil
}
