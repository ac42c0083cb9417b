package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"skusort/internal"
)

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
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  mode TEXT NOT NULL,
  status TEXT NOT NULL,
  error TEXT,
  countsJson TEXT NOT NULL,
  totalMs REAL NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_traceId ON runs(traceId);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(entry internal.RunEntry) error {
	countsJSON, err := json.Marshal(entry.Stats)
	if err != nil {
		return err
	}
	var errText *string
	if entry.Error != "" {
		errText = &entry.Error
	}
	_, err = d.conn.Exec(`
INSERT INTO runs (traceId, mode, status, error, countsJson, totalMs)
VALUES (?, ?, ?, ?, ?, ?)
`, entry.TraceID, entry.Mode, entry.Status, errText, string(countsJSON), entry.TotalMs)
	return err
}

func (d *DB) ListRuns(limit int) ([]internal.RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
SELECT id, traceId, mode, status, error, countsJson, totalMs, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunEntry
	for rows.Next() {
		var row internal.RunEntry
		var errText sql.NullString
		var countsJSON string
		if err := rows.Scan(&row.ID, &row.TraceID, &row.Mode, &row.Status, &errText, &countsJSON, &row.TotalMs, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.Error = errText.String
		_ = json.Unmarshal([]byte(countsJSON), &row.Stats)
		out = append(out, row)
	}
	return out, rows.Err()
}
