package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "docgen",
		Short: "Generate one document per employee from a roster, a code book and a template",
		Long: `docgen reads the employee roster and the job code book, resolves each
employee's job description and renders the template once per employee.

Without a subcommand it behaves like "docgen run".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	opts.bind(cmd)
	cmd.AddCommand(newRunCmd(&opts))
	cmd.AddCommand(newCheckCmd(&opts))
	cmd.AddCommand(newHistoryCmd(&opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(code)
	}
}
