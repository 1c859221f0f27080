package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tac_converter/internal/conversion"
	"tac_converter/internal/converter"
)

func newLexCmd(a *app) *cobra.Command {
	var (
		input  string
		family string
		asJSON bool
		pretty bool
		trace  bool
	)
	cmd := &cobra.Command{
		Use:   "lex [file]",
		Short: "Split TAC into tokens",
		Long: `Lex shows how a message is split into tokens and which kind each token
was recognised as, without parsing it.

With --trace every token also lists the recognisers whose pattern matches
its text, whatever the family and position rules decided.

Examples:
  echo "METAR EFHK 051052Z blaablaa 9999=" | tac_converter lex
  echo "TAF EFHK 010825Z 0109/0209 25015KT CAVOK=" | tac_converter lex --trace`,
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
			tacs, err := readMessages(r, false)
			if err != nil || len(tacs) == 0 {
				return err
			}

			hints := a.cfg.Hints()
			if hints.Family, err = conversion.ParseFamily(family); err != nil {
				return err
			}
			conv := a.converter()
			tokens := converter.Tokens(conv.Lex(tacs[0], hints))
			if trace {
				for i := range tokens {
					tokens[i].Candidates = conv.Candidates(tokens[i].Text)
				}
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), tokens, pretty)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := "#\tTEXT\tKIND\tSTATUS\tMESSAGE"
			if trace {
				header += "\tCANDIDATES"
			}
			fmt.Fprintln(tw, header)
			for _, t := range tokens {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s", t.Index, t.Text, t.Kind, t.Status, t.Message)
				if trace {
					fmt.Fprintf(tw, "\t%s", strings.Join(t.Candidates, ","))
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (default: stdin)")
	cmd.Flags().StringVar(&family, "family", "", "Force the message family instead of detecting it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write tokens as JSON")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&trace, "trace", false, "List the recognisers matching each token")
	return cmd
}
