package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tac_converter/internal/storage"
)

func newArchiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Search the local conversion archive",
	}
	cmd.AddCommand(newArchiveSearchCmd(a), newArchiveGetCmd(a), newArchiveStatsCmd(a))
	return cmd
}

func (a *app) openArchive() (*storage.Archive, error) {
	return storage.OpenArchive(a.cfg.Storage.ArchivePath)
}

func newArchiveSearchCmd(a *app) *cobra.Command {
	var p storage.QueryParams
	var oldestFirst bool
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "List archived conversions, newest first",
		Long: `Search lists archived conversions. The optional text is an FTS5 query on
the raw TAC.

Examples:
  tac_converter archive search --family TAF --status FAIL
  tac_converter archive search 'CAVOK AND EFHK'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				p.FullText = args[0]
			}
			p.Family = strings.ToUpper(p.Family)
			p.Status = strings.ToUpper(p.Status)
			p.Location = strings.ToUpper(p.Location)
			p.OrderDesc = !oldestFirst

			ar, err := a.openArchive()
			if err != nil {
				return err
			}
			defer ar.Close()

			records, err := ar.Query(cmd.Context(), p)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tRECEIVED\tFAMILY\tSTATUS\tLOCATION\tISSUES\tTAC")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					r.ID, r.ReceivedAt.Format("2006-01-02 15:04:05"), r.Family, r.Status,
					r.Location, r.IssueCount, firstLine(r.RawTAC))
			}
			return tw.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Family, "family", "", "Only this message family")
	f.StringVar(&p.Status, "status", "", "Only this status")
	f.StringVar(&p.Location, "location", "", "Only this location")
	f.BoolVar(&p.HasIssues, "issues", false, "Only conversions with issues")
	f.IntVar(&p.Limit, "limit", 50, "Maximum number of rows")
	f.IntVar(&p.Offset, "offset", 0, "Rows to skip")
	f.BoolVar(&oldestFirst, "oldest-first", false, "List oldest conversions first")
	return cmd
}

func newArchiveGetCmd(a *app) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one archived conversion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id: %w", err)
			}
			ar, err := a.openArchive()
			if err != nil {
				return err
			}
			defer ar.Close()

			r, err := ar.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), r, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", true, "Pretty-print JSON output")
	return cmd
}

func newArchiveStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show archive counts by family and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ar, err := a.openArchive()
			if err != nil {
				return err
			}
			defer ar.Close()

			st, err := ar.Stats(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "total: %d (with issues: %d)\n", st.Total, st.WithIssues)
			printCounts(w, "family", st.ByFamily)
			printCounts(w, "status", st.ByStatus)
			return nil
		},
	}
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "by %s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-12s %d\n", k, counts[k])
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
