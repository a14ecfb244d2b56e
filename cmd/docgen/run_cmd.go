package main

import (
	"github.com/spf13/cobra"

	"docgen/internal/pipeline"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Generate the documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, *opts)
		},
	}
}

func runGenerate(cmd *cobra.Command, opts options) error {
	e, err := setup(opts, true)
	if err != nil {
		return err
	}
	defer e.Close()

	// A nil *storage.DB must not end up inside the interface.
	var journal pipeline.Journal
	if e.journal != nil {
		journal = e.journal
	}

	_, err = pipeline.NewService(e.cfg, e.log, journal).Run(cmd.Context())
	return err
}
