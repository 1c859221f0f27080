package storage

import (
	"context"
	"errors"
	"fmt"
)

// Sink receives conversion records.
type Sink interface {
	Store(ctx context.Context, r Record) error
}

// Config holds the settings of every store. Empty hosts and paths disable
// the corresponding store.
type Config struct {
	ArchivePath string
	ClickHouse  ClickHouseConfig
	Postgres    PostgresConfig
}

// DefaultConfig returns a configuration with default local development settings.
func DefaultConfig() Config {
	return Config{
		ArchivePath: "tac_archive.db",
		ClickHouse: ClickHouseConfig{
			Host:     "localhost",
			Port:     9000,
			Database: "tac",
			User:     "default",
			Password: "",
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "tac_state",
			User:     "tac",
			Password: "tac",
		},
	}
}

// DB combines the configured stores. Any of them may be nil.
type DB struct {
	Archive *Archive      // SQLite archive with full-text search.
	CH      *ClickHouseDB // ClickHouse for analytics.
	PG      *PostgresDB   // PostgreSQL for the latest message per location.
}

// Open opens every store that cfg enables.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	db := &DB{}

	if cfg.ArchivePath != "" {
		a, err := OpenArchive(cfg.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		db.Archive = a
	}

	if cfg.ClickHouse.Host != "" {
		ch, err := OpenClickHouse(ctx, cfg.ClickHouse)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("clickhouse: %w", err)
		}
		db.CH = ch
	}

	if cfg.Postgres.Host != "" {
		pg, err := OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		db.PG = pg
	}

	return db, nil
}

// Close closes every open store.
func (d *DB) Close() error {
	var errs []error
	if d.Archive != nil {
		if err := d.Archive.Close(); err != nil {
			errs = append(errs, fmt.Errorf("archive: %w", err))
		}
	}
	if d.CH != nil {
		if err := d.CH.Close(); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse: %w", err))
		}
	}
	if d.PG != nil {
		d.PG.Close()
	}
	return errors.Join(errs...)
}

// CreateSchemas creates the server-side schemas. The archive creates its
// own on open.
func (d *DB) CreateSchemas(ctx context.Context) error {
	if d.CH != nil {
		if err := d.CH.CreateSchema(ctx); err != nil {
			return fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	if d.PG != nil {
		if err := d.PG.CreateSchema(ctx); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

// Store writes r to every open store. A failing store does not stop the
// others.
func (d *DB) Store(ctx context.Context, r Record) error {
	var errs []error
	for _, s := range d.sinks() {
		if err := s.sink.Store(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

type namedSink struct {
	name string
	sink Sink
}

func (d *DB) sinks() []namedSink {
	var out []namedSink
	if d.Archive != nil {
		out = append(out, namedSink{"archive", d.Archive})
	}
	if d.CH != nil {
		out = append(out, namedSink{"clickhouse", d.CH})
	}
	if d.PG != nil {
		out = append(out, namedSink{"postgres", d.PG})
	}
	return out
}
