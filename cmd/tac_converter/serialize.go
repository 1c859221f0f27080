package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tac_converter/internal/conversion"
	"tac_converter/internal/model"
)

// serializeIn is the JSON accepted by serialize: the output of parse.
type serializeIn struct {
	Family  conversion.Family `json:"family"`
	Message json.RawMessage   `json:"message"`
}

func newSerializeCmd(a *app) *cobra.Command {
	var (
		input         string
		maxLineLength int
		labelEnd      int
	)
	cmd := &cobra.Command{
		Use:   "serialize [file]",
		Short: "Serialize JSON messages back to TAC",
		Long: `Serialize reads the JSON written by parse, one value after another, and
writes each message as TAC. Issues are reported on stderr.

Examples:
  tac_converter parse taf.txt | tac_converter serialize --max-line-length 69`,
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

			hints := a.cfg.Hints()
			if maxLineLength > 0 {
				hints.MaxLineLength = maxLineLength
			}
			if labelEnd > 0 {
				hints.SWXLabelEndLength = labelEnd
			}

			conv := a.converter()
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			dec := json.NewDecoder(r)
			for n := 1; ; n++ {
				var in serializeIn
				if err := dec.Decode(&in); errors.Is(err, io.EOF) {
					return nil
				} else if err != nil {
					return fmt.Errorf("value %d: %w", n, err)
				}
				if len(in.Message) == 0 || string(in.Message) == "null" {
					fmt.Fprintf(errOut, "value %d: no message\n", n)
					continue
				}
				msg, err := model.DecodeMessage(in.Family, in.Message)
				if err != nil {
					return fmt.Errorf("value %d: %w", n, err)
				}

				res := conv.Serialize(msg, hints)
				for _, issue := range res.Issues {
					fmt.Fprintf(errOut, "value %d: %s: %s\n", n, issue.Type, issue.Message)
				}
				if res.Message == nil {
					fmt.Fprintf(errOut, "value %d: %s\n", n, res.Status)
					continue
				}
				fmt.Fprintln(out, *res.Message)
			}
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (default: stdin)")
	cmd.Flags().IntVar(&maxLineLength, "max-line-length", 0, "Wrap output lines at this length")
	cmd.Flags().IntVar(&labelEnd, "swx-label-end-length", 0, "Pad space weather advisory labels to this width")
	return cmd
}
