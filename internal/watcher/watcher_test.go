package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/config"
	"docgen/internal/logging"
	"docgen/internal/pipeline"
	"docgen/internal/storage"
)

type countingRunner struct {
	calls int
	err   error
}

func (r *countingRunner) Run(context.Context) (pipeline.Summary, error) {
	r.calls++
	return pipeline.Summary{RunID: "r"}, r.err
}

func writeInputs(t *testing.T, base string) config.Config {
	t.Helper()
	for _, name := range []string{"sifarnik.xlsx", "ulaz.xlsx", "sablon.docx"} {
		require.NoError(t, os.WriteFile(filepath.Join(base, name), []byte(name), 0o644))
	}
	return config.Config{
		BaseDir:          base,
		CodeBookPath:     "sifarnik.xlsx",
		InputPath:        "ulaz.xlsx",
		TemplatePath:     "sablon.docx",
		WatchIntervalSec: 1,
	}
}

func TestRunCycleRunsOnlyOnChange(t *testing.T) {
	base := t.TempDir()
	cfg := writeInputs(t, base)
	db, err := storage.Open(filepath.Join(base, "docgen.db"))
	require.NoError(t, err)
	defer db.Close()

	runner := &countingRunner{}
	w := NewService(cfg, logging.Discard(), runner, db)
	ctx := context.Background()

	ran, err := w.RunCycle(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = w.RunCycle(ctx)
	require.NoError(t, err)
	assert.False(t, ran)

	require.NoError(t, os.WriteFile(cfg.InputFile(), []byte("changed"), 0o644))
	ran, err = w.RunCycle(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, runner.calls)

	stored, err := db.GetMetadata(FingerprintKey)
	require.NoError(t, err)
	require.NotNil(t, stored)

	// A fresh watcher over the same journal does not redo the last run.
	again := NewService(cfg, logging.Discard(), runner, db)
	ran, err = again.RunCycle(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestRunCycleFailureIsNotRetried(t *testing.T) {
	cfg := writeInputs(t, t.TempDir())
	runner := &countingRunner{err: errors.New("boom")}
	w := NewService(cfg, logging.Discard(), runner, nil)

	ran, err := w.RunCycle(context.Background())
	require.Error(t, err)
	assert.True(t, ran)

	ran, err = w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 1, runner.calls)
}

func TestFingerprint(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "a")
	b := filepath.Join(base, "b")
	require.NoError(t, os.WriteFile(a, []byte("one"), 0o644))

	missing, err := Fingerprint(a, b)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(b, []byte(""), 0o644))
	empty, err := Fingerprint(a, b)
	require.NoError(t, err)
	assert.NotEqual(t, missing, empty)

	same, err := Fingerprint(a, b)
	require.NoError(t, err)
	assert.Equal(t, empty, same)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := writeInputs(t, t.TempDir())
	runner := &countingRunner{}
	w := NewService(cfg, logging.Discard(), runner, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, w.Run(ctx))
	assert.Equal(t, 1, runner.calls)
}
