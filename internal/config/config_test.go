package config

import (
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal"
)

func TestLoadDefaults(t *testing.T) {
	base := t.TempDir()
	t.Setenv("DOCGEN_BASE_DIR", base)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Sifarnik", cfg.CodeBookSheet)
	assert.Equal(t, "Ulaz", cfg.InputSheet)
	assert.Equal(t, filepath.Join(base, "sifarnik.xlsx"), cfg.CodeBookFile())
	assert.Equal(t, filepath.Join(base, "ulaz.xlsx"), cfg.InputFile())
	assert.Equal(t, filepath.Join(base, "sablon.docx"), cfg.TemplateFile())
	assert.Equal(t, filepath.Join(base, "izlaz"), cfg.OutputPath())
	assert.True(t, cfg.MissReport)
	assert.True(t, cfg.JournalEnabled)
	assert.Equal(t, 10, cfg.WatchIntervalSec)
	assert.Equal(t, "", cfg.AliasPath())
}

func TestLoadOverrides(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "drugi.xlsx")
	t.Setenv("DOCGEN_BASE_DIR", base)
	t.Setenv("INPUT_PATH", abs)
	t.Setenv("INPUT_SHEET", "Radnici")
	t.Setenv("MISS_REPORT", "false")
	t.Setenv("WATCH_INTERVAL_SEC", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.InputFile())
	assert.Equal(t, "Radnici", cfg.InputSheet)
	assert.False(t, cfg.MissReport)
	assert.Equal(t, 3, cfg.WatchIntervalSec)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("WATCH_INTERVAL_SEC", "often")

	_, err := Load()
	var cfgErr *internal.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestValidate(t *testing.T) {
	t.Setenv("DOCGEN_BASE_DIR", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	cfg.LogLevel = "loud"
	cfg.WatchIntervalSec = 0
	err = cfg.Validate()
	var cfgErr *internal.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "LogLevel")
	assert.Contains(t, cfgErr.Reason, "WatchIntervalSec")

	cfg.LogLevel = "debug"
	cfg.WatchIntervalSec = 1
	cfg.JournalPath = ""
	assert.Error(t, cfg.Validate())

	cfg.JournalEnabled = false
	assert.NoError(t, cfg.Validate())
}
