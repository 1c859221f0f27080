// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tac_converter/internal/conversion"
	"tac_converter/internal/storage"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	LogFile         string
	ShutdownTimeout time.Duration

	// Conversion defaults applied to every request.
	ParsingMode       conversion.ParsingMode
	StatusPolicy      conversion.StatusPolicy
	SWXLabelEndLength int
	MaxLineLength     int

	APIKeys   []string
	CacheSize int

	NATSURL       string
	NATSSubject   string
	NATSOutPrefix string
	NATSQueue     string
	FeedEncoding  string

	Storage storage.Config
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("TAC_SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	mode, err := conversion.ParseParsingMode(EnvOrDefault("TAC_PARSING_MODE", "STRICT"))
	if err != nil {
		return nil, errors.New("invalid TAC_PARSING_MODE")
	}
	policy, err := conversion.ParseStatusPolicy(EnvOrDefault("TAC_STATUS_POLICY", "outcome"))
	if err != nil {
		return nil, errors.New("invalid TAC_STATUS_POLICY")
	}

	labelEnd, err := parseInt("TAC_SWX_LABEL_END_LENGTH", 0)
	if err != nil {
		return nil, err
	}
	lineLength, err := parseInt("TAC_MAX_LINE_LENGTH", 0)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("TAC_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	st := storage.DefaultConfig()
	st.ArchivePath = EnvOrDefault("TAC_ARCHIVE_PATH", st.ArchivePath)
	st.ClickHouse.Host = EnvOrDefault("CLICKHOUSE_HOST", "")
	if st.ClickHouse.Port, err = parseInt("CLICKHOUSE_PORT", st.ClickHouse.Port); err != nil {
		return nil, err
	}
	st.ClickHouse.Database = EnvOrDefault("CLICKHOUSE_DB", st.ClickHouse.Database)
	st.ClickHouse.User = EnvOrDefault("CLICKHOUSE_USER", st.ClickHouse.User)
	st.ClickHouse.Password = EnvOrDefault("CLICKHOUSE_PASSWORD", st.ClickHouse.Password)
	st.Postgres.Host = EnvOrDefault("POSTGRES_HOST", "")
	if st.Postgres.Port, err = parseInt("POSTGRES_PORT", st.Postgres.Port); err != nil {
		return nil, err
	}
	st.Postgres.Database = EnvOrDefault("POSTGRES_DB", st.Postgres.Database)
	st.Postgres.User = EnvOrDefault("POSTGRES_USER", st.Postgres.User)
	st.Postgres.Password = EnvOrDefault("POSTGRES_PASSWORD", st.Postgres.Password)

	cfg := &Config{
		HTTPAddr:          EnvOrDefault("TAC_HTTP_ADDR", ":8080"),
		LogLevel:          EnvOrDefault("TAC_LOG_LEVEL", "info"),
		LogFormat:         EnvOrDefault("TAC_LOG_FORMAT", "json"),
		LogFile:           os.Getenv("TAC_LOG_FILE"),
		ShutdownTimeout:   shutdownTimeout,
		ParsingMode:       mode,
		StatusPolicy:      policy,
		SWXLabelEndLength: labelEnd,
		MaxLineLength:     lineLength,
		APIKeys:           ParseList(os.Getenv("TAC_API_KEYS")),
		CacheSize:         cacheSize,
		NATSURL:           EnvOrDefault("NATS_URL", "nats://localhost:4222"),
		NATSSubject:       EnvOrDefault("NATS_SUBJECT", "tac.raw"),
		NATSOutPrefix:     EnvOrDefault("NATS_OUT_PREFIX", "tac.converted"),
		NATSQueue:         os.Getenv("NATS_QUEUE"),
		FeedEncoding:      EnvOrDefault("TAC_FEED_ENCODING", "json"),
		Storage:           st,
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, errors.New("TAC_LOG_FORMAT must be json or text")
	}
	switch cfg.FeedEncoding {
	case "json", "msgpack", "msgpack+zstd":
	default:
		return nil, errors.New("TAC_FEED_ENCODING must be json, msgpack or msgpack+zstd")
	}
	if cfg.NATSSubject == "" {
		return nil, errors.New("NATS_SUBJECT is required")
	}
	if cfg.SWXLabelEndLength < 0 || cfg.MaxLineLength < 0 {
		return nil, errors.New("line and label lengths must not be negative")
	}
	if cfg.CacheSize <= 0 {
		return nil, errors.New("TAC_CACHE_SIZE must be positive")
	}

	return cfg, nil
}

// Hints returns the conversion defaults as per-call hints.
func (c *Config) Hints() conversion.Hints {
	return conversion.Hints{
		Mode:              c.ParsingMode,
		StatusPolicy:      c.StatusPolicy,
		SWXLabelEndLength: c.SWXLabelEndLength,
		MaxLineLength:     c.MaxLineLength,
	}
}

// AuthEnabled reports whether the API requires a key.
func (c *Config) AuthEnabled() bool {
	return len(c.APIKeys) > 0
}

// EnvOrDefault returns the value of the environment variable key, or
// fallback when it is unset or empty.
func EnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ParseList splits a comma separated list, dropping blanks.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
