package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tac_converter/internal/conversion"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Archive is a local SQLite archive of conversions with full-text search
// on the raw TAC.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens or creates an archive at path. ":memory:" gives a
// private in-memory archive.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createArchiveSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func createArchiveSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		received_at TEXT NOT NULL,
		issued_at TEXT,
		source TEXT NOT NULL,
		family TEXT NOT NULL,
		status TEXT NOT NULL,
		location TEXT,
		raw_tac TEXT NOT NULL,
		message_json TEXT,
		issues_json TEXT NOT NULL,
		issue_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_conversions_family ON conversions(family);
	CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status);
	CREATE INDEX IF NOT EXISTS idx_conversions_location ON conversions(location);
	CREATE INDEX IF NOT EXISTS idx_conversions_received ON conversions(received_at);

	-- FTS5 virtual table for full-text search on the raw TAC.
	CREATE VIRTUAL TABLE IF NOT EXISTS conversions_fts USING fts5(
		raw_tac,
		content='conversions',
		content_rowid='seq'
	);

	CREATE TRIGGER IF NOT EXISTS conversions_ai AFTER INSERT ON conversions BEGIN
		INSERT INTO conversions_fts(rowid, raw_tac) VALUES (new.seq, new.raw_tac);
	END;

	CREATE TRIGGER IF NOT EXISTS conversions_ad AFTER DELETE ON conversions BEGIN
		INSERT INTO conversions_fts(conversions_fts, rowid, raw_tac) VALUES('delete', old.seq, old.raw_tac);
	END;
	`
	_, err := db.Exec(schema)
	return err
}

// Store inserts a record.
func (a *Archive) Store(ctx context.Context, r Record) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO conversions (id, received_at, issued_at, source, family, status, location,
			raw_tac, message_json, issues_json, issue_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID.String(), r.ReceivedAt.UTC().Format(time.RFC3339Nano), formatOptionalTime(r.IssuedAt),
		r.Source, r.Family, r.Status, r.Location, r.RawTAC, r.MessageJSON, r.IssuesJSON, r.IssueCount)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

// QueryParams filters archive queries.
type QueryParams struct {
	Family    string // exact match
	Status    string // exact match
	Location  string // exact match
	FullText  string // FTS5 match on raw_tac
	HasIssues bool
	Limit     int // default 100
	Offset    int
	OrderDesc bool // newest first
}

const recordColumns = `c.id, c.received_at, c.issued_at, c.source, c.family, c.status, c.location,
	c.raw_tac, c.message_json, c.issues_json, c.issue_count`

// Query returns the records matching p in archive order.
func (a *Archive) Query(ctx context.Context, p QueryParams) ([]Record, error) {
	var conditions []string
	var args []any

	if p.Family != "" {
		conditions = append(conditions, "c.family = ?")
		args = append(args, p.Family)
	}
	if p.Status != "" {
		conditions = append(conditions, "c.status = ?")
		args = append(args, p.Status)
	}
	if p.Location != "" {
		conditions = append(conditions, "c.location = ?")
		args = append(args, p.Location)
	}
	if p.HasIssues {
		conditions = append(conditions, "c.issue_count > 0")
	}

	query := "SELECT " + recordColumns + " FROM conversions c"
	if p.FullText != "" {
		query += " JOIN conversions_fts fts ON c.seq = fts.rowid"
		conditions = append([]string{"conversions_fts MATCH ?"}, conditions...)
		args = append([]any{p.FullText}, args...)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	direction := "ASC"
	if p.OrderDesc {
		direction = "DESC"
	}
	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" ORDER BY c.seq %s LIMIT %d OFFSET %d", direction, limit, p.Offset)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the record with the given ID.
func (a *Archive) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM conversions c WHERE c.id = ?", id.String())
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var r Record
	var id, received string
	var issued, location, messageJSON sql.NullString
	err := s.Scan(&id, &received, &issued, &r.Source, &r.Family, &r.Status, &location,
		&r.RawTAC, &messageJSON, &r.IssuesJSON, &r.IssueCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan row: %w", err)
	}

	if r.ID, err = uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("parse id: %w", err)
	}
	r.ReceivedAt, _ = time.Parse(time.RFC3339Nano, received)
	if issued.Valid && issued.String != "" {
		r.IssuedAt, _ = time.Parse(time.RFC3339Nano, issued.String)
	}
	r.Location = location.String
	r.MessageJSON = messageJSON.String
	r.IssueTypes = issueTypes(r.IssuesJSON)
	return r, nil
}

// issueTypes lists the issue type names of a stored issues column.
func issueTypes(issuesJSON string) []string {
	var issues conversion.Issues
	if err := json.Unmarshal([]byte(issuesJSON), &issues); err != nil {
		return nil
	}
	var out []string
	for _, issue := range issues {
		out = append(out, issue.Type.String())
	}
	return out
}

// ArchiveStats are aggregate counts over the archive.
type ArchiveStats struct {
	Total      int
	WithIssues int
	ByFamily   map[string]int
	ByStatus   map[string]int
}

// Stats returns aggregate counts.
func (a *Archive) Stats(ctx context.Context) (*ArchiveStats, error) {
	stats := &ArchiveStats{
		ByFamily: make(map[string]int),
		ByStatus: make(map[string]int),
	}

	row := a.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(issue_count > 0), 0) FROM conversions")
	if err := row.Scan(&stats.Total, &stats.WithIssues); err != nil {
		return nil, err
	}
	if err := a.countBy(ctx, "family", stats.ByFamily); err != nil {
		return nil, err
	}
	if err := a.countBy(ctx, "status", stats.ByStatus); err != nil {
		return nil, err
	}
	return stats, nil
}

// countBy fills into with per-value counts of a fixed column.
func (a *Archive) countBy(ctx context.Context, column string, into map[string]int) error {
	switch column {
	case "family", "status", "location", "source":
	default:
		return fmt.Errorf("invalid column: %s", column)
	}
	rows, err := a.db.QueryContext(ctx, fmt.Sprintf("SELECT %s, COUNT(*) FROM conversions GROUP BY %s", column, column))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}

func formatOptionalTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
