package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tac_converter/internal/conversion"
	"tac_converter/internal/converter"
	"tac_converter/internal/storage"
)

// parseOut is one line of parse output.
type parseOut struct {
	ID string `json:"id,omitempty"`
	converter.Parsed
	Error string `json:"error,omitempty"`
}

func newParseCmd(a *app) *cobra.Command {
	var (
		input       string
		family      string
		perLine     bool
		pretty      bool
		archive     bool
		failOnError bool
	)
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse TAC into JSON",
		Long: `Parse reads TAC from a file or stdin and writes the structured message,
its status and issues as JSON.

Examples:
  # Parse a single METAR
  echo "METAR EFHK 051050Z 22005KT CAVOK 15/08 Q1021 NOSIG=" | tac_converter parse

  # Parse one message per line and keep the results in the archive
  tac_converter parse --lines --archive metars.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				input = args[0]
			}
			r, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer r.Close()
			tacs, err := readMessages(r, perLine)
			if err != nil {
				return err
			}

			hints := a.cfg.Hints()
			if hints.Family, err = conversion.ParseFamily(family); err != nil {
				return err
			}

			var sink storage.Sink
			if archive {
				ar, err := storage.OpenArchive(a.cfg.Storage.ArchivePath)
				if err != nil {
					return err
				}
				defer ar.Close()
				sink = ar
			}

			conv := a.converter()
			failed := 0
			for _, tac := range tacs {
				out := parseOut{}
				out.Parsed, err = conv.Parse(tac, hints)
				if err != nil {
					out.Family = conversion.FamilyUnknown
					out.Status = conversion.StatusFail
					out.Error = err.Error()
				}
				if out.Status == conversion.StatusFail {
					failed++
				}
				if sink != nil {
					rec, err := storage.NewRecord(out.Parsed, tac, "cli", time.Now())
					if err != nil {
						return err
					}
					if err := sink.Store(cmd.Context(), rec); err != nil {
						return err
					}
					out.ID = rec.ID.String()
				}
				if err := writeJSON(cmd.OutOrStdout(), out, pretty); err != nil {
					return err
				}
			}
			if failOnError && failed > 0 {
				return fmt.Errorf("%d of %d messages failed", failed, len(tacs))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (default: stdin)")
	cmd.Flags().StringVar(&family, "family", "", "Force the message family instead of detecting it")
	cmd.Flags().BoolVar(&perLine, "lines", false, "Treat each non-empty input line as a message")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&archive, "archive", false, "Store results in the local archive")
	cmd.Flags().BoolVar(&failOnError, "fail", false, "Exit non-zero when any message fails")
	return cmd
}
