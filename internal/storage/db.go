package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite"

	"docgen/internal"
)

// DB is the run journal: one row per generation run, the job codes it could
// not resolve, and a small key/value store.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  startedAt TEXT NOT NULL,
  finishedAt TEXT NOT NULL,
  codeBookPath TEXT NOT NULL,
  inputPath TEXT NOT NULL,
  templatePath TEXT NOT NULL,
  outputDir TEXT NOT NULL,
  rowCount INTEGER NOT NULL,
  hits INTEGER NOT NULL,
  misses INTEGER NOT NULL,
  status TEXT NOT NULL,
  error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_startedAt ON runs(startedAt);

CREATE TABLE IF NOT EXISTS misses (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  rowNumber INTEGER NOT NULL,
  firstName TEXT NOT NULL,
  lastName TEXT NOT NULL,
  rawKey TEXT NOT NULL,
  paddedKey TEXT NOT NULL,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_misses_runId ON misses(runId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// RecordRun stores run and its misses in one transaction.
func (d *DB) RecordRun(run internal.RunRecord, misses []internal.LookupMiss) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
INSERT INTO runs (
  id, startedAt, finishedAt, codeBookPath, inputPath, templatePath, outputDir,
  rowCount, hits, misses, status, error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.CodeBookPath, run.InputPath, run.TemplatePath, run.OutputDir,
		run.Rows, run.Hits, run.Misses, string(run.Status), run.Error,
	); err != nil {
		return errors.Wrap(err, "insert run")
	}

	stmt, err := tx.Prepare(`
INSERT INTO misses (runId, rowNumber, firstName, lastName, rawKey, paddedKey)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range misses {
		if _, err := stmt.Exec(run.ID, m.RowNumber, m.FirstName, m.LastName, m.RawKey, m.PaddedKey); err != nil {
			return errors.Wrap(err, "insert miss")
		}
	}

	return tx.Commit()
}

// ListRuns returns the latest runs, newest first.
func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, startedAt, finishedAt, codeBookPath, inputPath, templatePath, outputDir,
       rowCount, hits, misses, status, error
FROM runs ORDER BY startedAt DESC, rowid DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRecord
	for rows.Next() {
		var (
			run               internal.RunRecord
			started, finished string
			status            string
		)
		if err := rows.Scan(
			&run.ID, &started, &finished, &run.CodeBookPath, &run.InputPath, &run.TemplatePath, &run.OutputDir,
			&run.Rows, &run.Hits, &run.Misses, &status, &run.Error,
		); err != nil {
			return nil, err
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		run.Status = internal.RunStatus(status)
		out = append(out, run)
	}
	return out, rows.Err()
}

// ListMisses returns the misses of one run in row order.
func (d *DB) ListMisses(runID string) ([]internal.LookupMiss, error) {
	rows, err := d.conn.Query(`
SELECT rowNumber, firstName, lastName, rawKey, paddedKey
FROM misses WHERE runId = ? ORDER BY rowNumber ASC, id ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.LookupMiss
	for rows.Next() {
		var m internal.LookupMiss
		if err := rows.Scan(&m.RowNumber, &m.FirstName, &m.LastName, &m.RawKey, &m.PaddedKey); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

// GetMetadata returns nil when key was never set.
func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// Fixed width so that timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
