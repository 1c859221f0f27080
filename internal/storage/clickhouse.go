package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB stores conversions for analytics.
type ClickHouseDB struct {
	conn driver.Conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the conversions table.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	err := d.conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS conversions (
			id              UUID,
			received_at     DateTime64(3),
			issued_at       Nullable(DateTime64(3)),
			source          LowCardinality(String),
			family          LowCardinality(String),
			status          LowCardinality(String),
			location        LowCardinality(String),
			raw_tac         String,
			message_json    String,
			issues_json     String,
			issue_count     UInt16,
			issue_types     Array(LowCardinality(String))
		)
		ENGINE = MergeTree()
		PARTITION BY toYYYYMM(received_at)
		ORDER BY (family, status, received_at, id)
		SETTINGS index_granularity = 8192`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	// Bloom filter index for token search on the raw TAC (ignore error if already exists).
	_ = d.conn.Exec(ctx, `ALTER TABLE conversions ADD INDEX IF NOT EXISTS idx_raw_tac_bloom raw_tac TYPE tokenbf_v1(32768, 3, 0) GRANULARITY 1`)
	return nil
}

const chInsert = `INSERT INTO conversions (id, received_at, issued_at, source, family, status, location,
	raw_tac, message_json, issues_json, issue_count, issue_types)`

// Store inserts a single record.
func (d *ClickHouseDB) Store(ctx context.Context, r Record) error {
	return d.StoreBatch(ctx, []Record{r})
}

// StoreBatch inserts records in one batch.
func (d *ClickHouseDB) StoreBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := d.conn.PrepareBatch(ctx, chInsert)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		var issued *time.Time
		if !r.IssuedAt.IsZero() {
			t := r.IssuedAt
			issued = &t
		}
		types := r.IssueTypes
		if types == nil {
			types = []string{}
		}
		err := batch.Append(r.ID, r.ReceivedAt, issued, r.Source, r.Family, r.Status, r.Location,
			r.RawTAC, r.MessageJSON, r.IssuesJSON, uint16(r.IssueCount), types)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// FamilyStats are conversion counts of one family.
type FamilyStats struct {
	Family     string
	Total      uint64
	ByStatus   map[string]uint64
	IssueTypes map[string]uint64
}

// Stats returns per-family status and issue type counts of conversions
// received since the given time.
func (d *ClickHouseDB) Stats(ctx context.Context, since time.Time) (map[string]*FamilyStats, error) {
	out := make(map[string]*FamilyStats)
	get := func(family string) *FamilyStats {
		fs, ok := out[family]
		if !ok {
			fs = &FamilyStats{
				Family:     family,
				ByStatus:   make(map[string]uint64),
				IssueTypes: make(map[string]uint64),
			}
			out[family] = fs
		}
		return fs
	}

	rows, err := d.conn.Query(ctx, `SELECT family, status, count() FROM conversions
		WHERE received_at >= ? GROUP BY family, status`, since)
	if err != nil {
		return nil, fmt.Errorf("query status stats: %w", err)
	}
	for rows.Next() {
		var family, status string
		var count uint64
		if err := rows.Scan(&family, &status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan status stats: %w", err)
		}
		fs := get(family)
		fs.ByStatus[status] = count
		fs.Total += count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate status stats: %w", err)
	}
	rows.Close()

	rows, err = d.conn.Query(ctx, `SELECT family, issue_type, count() FROM conversions
		ARRAY JOIN issue_types AS issue_type
		WHERE received_at >= ? GROUP BY family, issue_type`, since)
	if err != nil {
		return nil, fmt.Errorf("query issue stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var family, issueType string
		var count uint64
		if err := rows.Scan(&family, &issueType, &count); err != nil {
			return nil, fmt.Errorf("scan issue stats: %w", err)
		}
		get(family).IssueTypes[issueType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issue stats: %w", err)
	}
	return out, nil
}
