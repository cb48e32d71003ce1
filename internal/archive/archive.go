// Package archive persists computed similarity matrices in a SQLite
// database. Each save is a run: labels stored as JSON, matrix rows stored as
// little-endian float64 blobs, one row per record.
package archive

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"semsi/internal/similarity"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	label_count INTEGER NOT NULL,
	labels      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS run_rows (
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	row_index INTEGER NOT NULL,
	scores    BLOB NOT NULL,
	PRIMARY KEY (run_id, row_index)
);`

// RunInfo describes one archived matrix run.
type RunInfo struct {
	ID         string
	CreatedAt  time.Time
	Source     string
	LabelCount int
}

// Store is a SQLite-backed archive of similarity runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) an archive database at path with WAL journal mode
// and a busy timeout, and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping archive %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun stores the matrix as a new run and returns its id. Source is a
// free-form note about where the matrix came from, typically the contents
// file path.
func (s *Store) SaveRun(ctx context.Context, source string, m *similarity.Matrix) (string, error) {
	labels, err := json.Marshal(m.Labels)
	if err != nil {
		return "", fmt.Errorf("encode labels: %w", err)
	}
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, created_at, source, label_count, labels) VALUES (?, ?, ?, ?, ?)",
		id, time.Now().UTC().Format(time.RFC3339), source, len(m.Labels), string(labels))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	for i, row := range m.Values {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO run_rows (run_id, row_index, scores) VALUES (?, ?, ?)",
			id, i, encodeRow(row))
		if err != nil {
			return "", fmt.Errorf("insert run row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save run: %w", err)
	}
	return id, nil
}

// LoadRun reloads an archived matrix by run id.
func (s *Store) LoadRun(ctx context.Context, id string) (*similarity.Matrix, error) {
	var labelsJSON string
	var labelCount int
	err := s.db.QueryRowContext(ctx,
		"SELECT labels, label_count FROM runs WHERE id = ?", id).Scan(&labelsJSON, &labelCount)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	var labels []string
	if err := json.Unmarshal([]byte(labelsJSON), &labels); err != nil {
		return nil, fmt.Errorf("decode labels for run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT row_index, scores FROM run_rows WHERE run_id = ? ORDER BY row_index", id)
	if err != nil {
		return nil, fmt.Errorf("load run rows %s: %w", id, err)
	}
	defer rows.Close()

	values := make([][]float64, labelCount)
	for rows.Next() {
		var idx int
		var blob []byte
		if err := rows.Scan(&idx, &blob); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if idx < 0 || idx >= labelCount {
			return nil, fmt.Errorf("run %s has out-of-range row index %d", id, idx)
		}
		row, err := decodeRow(blob)
		if err != nil {
			return nil, fmt.Errorf("decode run row %d: %w", idx, err)
		}
		values[idx] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return &similarity.Matrix{Labels: labels, Values: values}, nil
}

// ListRuns returns archived runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created_at, source, label_count FROM runs ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		var created string
		if err := rows.Scan(&info.ID, &created, &info.Source, &info.LabelCount); err != nil {
			return nil, fmt.Errorf("scan run info: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			info.CreatedAt = t
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// encodeRow packs a matrix row as a little-endian sequence of IEEE 754
// float64 values; the length is derived from the blob size on decode.
func encodeRow(row []float64) []byte {
	b := make([]byte, len(row)*8)
	for i, v := range row {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return b
}

func decodeRow(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("invalid row blob length %d (not multiple of 8)", len(b))
	}
	row := make([]float64, len(b)/8)
	for i := range row {
		row[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return row, nil
}
