package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB keeps the latest conversion per location and family.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// Pool returns the underlying connection pool.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS latest_messages (
		location        TEXT NOT NULL,
		family          TEXT NOT NULL,
		id              UUID NOT NULL,
		status          TEXT NOT NULL,
		received_at     TIMESTAMPTZ NOT NULL,
		issued_at       TIMESTAMPTZ,
		source          TEXT NOT NULL,
		raw_tac         TEXT NOT NULL,
		message_json    JSONB,
		issues_json     JSONB NOT NULL,
		issue_count     INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (location, family)
	);

	CREATE INDEX IF NOT EXISTS idx_latest_messages_received ON latest_messages(received_at);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// UpsertLatest stores r as the latest message of its location and family
// unless a newer one is already stored. Records without a location or
// message are ignored.
func (d *PostgresDB) UpsertLatest(ctx context.Context, r Record) error {
	if r.Location == "" || r.MessageJSON == "" {
		return nil
	}

	var issued *time.Time
	if !r.IssuedAt.IsZero() {
		issued = &r.IssuedAt
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO latest_messages (location, family, id, status, received_at, issued_at, source,
			raw_tac, message_json, issues_json, issue_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (location, family) DO UPDATE SET
			id = EXCLUDED.id,
			status = EXCLUDED.status,
			received_at = EXCLUDED.received_at,
			issued_at = EXCLUDED.issued_at,
			source = EXCLUDED.source,
			raw_tac = EXCLUDED.raw_tac,
			message_json = EXCLUDED.message_json,
			issues_json = EXCLUDED.issues_json,
			issue_count = EXCLUDED.issue_count
		WHERE COALESCE(EXCLUDED.issued_at, EXCLUDED.received_at)
			>= COALESCE(latest_messages.issued_at, latest_messages.received_at)
	`, r.Location, r.Family, r.ID, r.Status, r.ReceivedAt, issued, r.Source,
		r.RawTAC, r.MessageJSON, r.IssuesJSON, r.IssueCount)
	if err != nil {
		return fmt.Errorf("upsert latest: %w", err)
	}
	return nil
}

// Store implements Sink by upserting the latest message.
func (d *PostgresDB) Store(ctx context.Context, r Record) error {
	return d.UpsertLatest(ctx, r)
}

const latestColumns = `id, received_at, issued_at, source, family, status, location,
	raw_tac, message_json::text, issues_json::text, issue_count`

// GetLatest returns the latest message of a location and family.
func (d *PostgresDB) GetLatest(ctx context.Context, location, family string) (*Record, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+latestColumns+`
		FROM latest_messages WHERE location = $1 AND family = $2`, location, family)
	r, err := scanLatest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListLatest returns the latest message of every family at a location.
func (d *PostgresDB) ListLatest(ctx context.Context, location string) ([]Record, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+latestColumns+`
		FROM latest_messages WHERE location = $1 ORDER BY family`, location)
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanLatest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanLatest(row pgx.Row) (Record, error) {
	var r Record
	var issued *time.Time
	var messageJSON *string
	err := row.Scan(&r.ID, &r.ReceivedAt, &issued, &r.Source, &r.Family, &r.Status, &r.Location,
		&r.RawTAC, &messageJSON, &r.IssuesJSON, &r.IssueCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan latest: %w", err)
	}
	if issued != nil {
		r.IssuedAt = *issued
	}
	if messageJSON != nil {
		r.MessageJSON = *messageJSON
	}
	r.IssueTypes = issueTypes(r.IssuesJSON)
	return r, nil
}
