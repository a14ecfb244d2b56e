package main

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, or the unresolved codes of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*opts, true)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.journal == nil {
				return withCode(exitConfig, errors.New("journal is disabled or unavailable (JOURNAL_ENABLED, JOURNAL_PATH)"))
			}

			out := cmd.OutOrStdout()
			if runID != "" {
				misses, err := e.journal.ListMisses(runID)
				if err != nil {
					return err
				}
				for _, m := range misses {
					fmt.Fprintf(out, "row=%d name=%q code=%q padded=%q\n", m.RowNumber, m.FirstName+" "+m.LastName, m.RawKey, m.PaddedKey)
				}
				fmt.Fprintf(out, "%d unresolved codes\n", len(misses))
				return nil
			}

			runs, err := e.journal.ListRuns(limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(out, "%s %s status=%s rows=%d hits=%d misses=%d output=%s\n",
					r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Rows, r.Hits, r.Misses, r.OutputDir)
				if r.Error != "" {
					fmt.Fprintf(out, "  error: %s\n", r.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show the unresolved codes of this run")
	return cmd
}
