package main

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"

	"docgen/internal"
	"docgen/internal/config"
	"docgen/internal/docx"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"configuration", &internal.ConfigurationError{Reason: "x"}, exitConfig},
		{"wrapped configuration", errors.Wrap(&internal.ConfigurationError{Reason: "x"}, "run"), exitConfig},
		{"template", errors.Wrap(&docx.TemplateError{}, "render row 2"), exitTemplate},
		{"explicit code", withCode(exitTemplate, errors.New("x")), exitTemplate},
		{"other", errors.New("disk full"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestOptionsApply(t *testing.T) {
	cfg := config.Config{InputPath: "ulaz.xlsx", InputSheet: "Ulaz", OutputDir: "izlaz", JournalEnabled: true}
	options{input: "radnici.xlsx", output: "out", dryRun: true, noJournal: true}.apply(&cfg)

	assert.Equal(t, "radnici.xlsx", cfg.InputPath)
	assert.Equal(t, "Ulaz", cfg.InputSheet)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.DryRun)
	assert.False(t, cfg.JournalEnabled)
}
