package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"docgen/internal/columns"
	"docgen/internal/pipeline"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the code book, the roster and the template without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*opts, false)
			if err != nil {
				return err
			}
			defer e.Close()

			plan, err := pipeline.NewService(e.cfg, e.log, nil).Check(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "code book: %s (sheet %q)\n", e.cfg.CodeBookFile(), e.cfg.CodeBookSheet)
			fmt.Fprintf(out, "  codes=%d longest=%d\n", plan.CodeBookEntries, plan.MaxCodeLen)
			printColumns(cmd, plan.CodeBookColumns)
			fmt.Fprintf(out, "roster: %s (sheet %q)\n", e.cfg.InputFile(), e.cfg.InputSheet)
			fmt.Fprintf(out, "  rows=%d\n", plan.Rows)
			printColumns(cmd, plan.InputColumns)
			fmt.Fprintf(out, "template: %s\n", e.cfg.TemplateFile())
			for _, tag := range plan.Tags {
				fmt.Fprintf(out, "  %s [[%s]]\n", tag.Part, tag.Name)
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}

func printColumns(cmd *cobra.Command, m columns.Map) {
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-16s <- %q\n", field, m[field])
	}
	if len(fields) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "  (no columns)")
	}
}
