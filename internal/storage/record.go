// Package storage persists conversion results: a local SQLite archive, a
// ClickHouse analytics table and a PostgreSQL table of the latest message
// per location.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tac_converter/internal/conversion"
	"tac_converter/internal/converter"
	"tac_converter/internal/model"
)

// Record is one stored conversion.
type Record struct {
	ID          uuid.UUID
	ReceivedAt  time.Time
	IssuedAt    time.Time // zero when the message has no resolvable issue time
	Source      string    // api, feed or cli
	Family      string
	Status      string
	Location    string
	RawTAC      string
	MessageJSON string
	IssuesJSON  string
	IssueCount  int
	IssueTypes  []string // one entry per issue
}

// NewRecord builds a record from a parse outcome. Partial issue times are
// resolved against receivedAt.
func NewRecord(p converter.Parsed, tac, source string, receivedAt time.Time) (Record, error) {
	r := Record{
		ID:         uuid.New(),
		ReceivedAt: receivedAt.UTC(),
		Source:     source,
		Family:     p.Family.String(),
		Status:     p.Status.String(),
		RawTAC:     tac,
		IssueCount: len(p.Issues),
	}
	for _, issue := range p.Issues {
		r.IssueTypes = append(r.IssueTypes, issue.Type.String())
	}

	if p.Message != nil {
		r.Location = p.Message.Location()
		r.IssuedAt = issuedAt(p.Message, r.ReceivedAt)
		b, err := json.Marshal(p.Message)
		if err != nil {
			return Record{}, fmt.Errorf("marshal message: %w", err)
		}
		r.MessageJSON = string(b)
	}

	issues := p.Issues
	if issues == nil {
		issues = conversion.Issues{}
	}
	b, err := json.Marshal(issues)
	if err != nil {
		return Record{}, fmt.Errorf("marshal issues: %w", err)
	}
	r.IssuesJSON = string(b)
	return r, nil
}

func issuedAt(msg model.Message, ref time.Time) time.Time {
	var p model.PartialDateTime
	switch m := msg.(type) {
	case *model.TAF:
		p = m.IssueTime
	case *model.METAR:
		p = m.IssueTime
	case *model.SIGMET:
		p = m.Validity.Start
	case *model.Bulletin:
		p = m.Heading.IssueTime
	case *model.SpaceWeatherAdvisory:
		return m.IssueTime
	}
	if p.IsZero() {
		return time.Time{}
	}
	t, err := p.Resolve(ref)
	if err != nil {
		return time.Time{}
	}
	return t
}
