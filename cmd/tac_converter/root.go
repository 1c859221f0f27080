package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tac_converter/internal/config"
	"tac_converter/internal/conversion"
	"tac_converter/internal/converter"
	"tac_converter/internal/logging"
)

// app carries what every command needs once flags and environment are read.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer

	mode         string
	statusPolicy string
	logLevel     string
	logFormat    string
	logFile      string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tac_converter",
		Short:         "Convert aviation weather messages between TAC and JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.closer != nil {
				_ = a.closer.Close()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.mode, "mode", "", "Parsing mode: strict or lenient (default from TAC_PARSING_MODE)")
	f.StringVar(&a.statusPolicy, "status-policy", "", "Status policy: outcome or severity (default from TAC_STATUS_POLICY)")
	f.StringVar(&a.logLevel, "log-level", "", "Log level (default from TAC_LOG_LEVEL)")
	f.StringVar(&a.logFormat, "log-format", "", "Log format: json or text (default from TAC_LOG_FORMAT)")
	f.StringVar(&a.logFile, "log-file", "", "Rotated log file (default Stderr)")

	root.AddCommand(
		newParseCmd(a),
		newSerializeCmd(a),
		newLexCmd(a),
		newServeCmd(a),
		newListenCmd(a),
		newArchiveCmd(a),
	)
	return root
}

// init loads the environment configuration and applies flag overrides.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.mode != "" {
		if cfg.ParsingMode, err = conversion.ParseParsingMode(a.mode); err != nil {
			return err
		}
	}
	if a.statusPolicy != "" {
		if cfg.StatusPolicy, err = conversion.ParseStatusPolicy(a.statusPolicy); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}

	a.cfg = cfg
	a.logger, a.closer = logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	return nil
}

func (a *app) converter(opts ...converter.Option) *converter.Converter {
	return converter.New(append([]converter.Option{converter.WithLogger(a.logger)}, opts...)...)
}

// openInput returns the named file, or stdin for "" and "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// readMessages reads the input as one message, or one message per
// non-empty line when perLine is set.
func readMessages(r io.Reader, perLine bool) ([]string, error) {
	if !perLine {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		tac := strings.TrimSpace(string(b))
		if tac == "" {
			return nil, nil
		}
		return []string{tac}, nil
	}

	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
