//go:build sqlite

package runstore

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a sqlite database file
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a new SQLiteStore using the database at path.
// Init must be called before it is used.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, region, seed, episodes, started)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			region = excluded.region,
			seed = excluded.seed,
			episodes = excluded.episodes,
			started = excluded.started
	`, run.ID, run.Region, int64(run.Seed), run.Episodes,
		run.Started.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, region, seed, episodes, started FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	return run, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, region, seed, episodes, started FROM runs ORDER BY started
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) AppendReward(ctx context.Context, runID string,
	episode int, reward float64) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if episode < 1 {
		return errors.New("episodes are numbered from 1")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO rewards (run_id, episode, reward)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, episode) DO UPDATE SET
			reward = excluded.reward
	`, runID, episode, reward)
	return err
}

func (s *SQLiteStore) GetRewards(ctx context.Context, runID string) ([]float64,
	bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT reward FROM rewards WHERE run_id = ? ORDER BY episode
	`, runID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var rewards []float64
	for rows.Next() {
		var r float64
		if err := rows.Scan(&r); err != nil {
			return nil, false, err
		}
		rewards = append(rewards, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return rewards, len(rewards) > 0, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run     Run
		seed    int64
		started string
	)
	if err := row.Scan(&run.ID, &run.Region, &seed, &run.Episodes,
		&started); err != nil {
		return Run{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return Run{}, err
	}
	run.Seed = uint64(seed)
	run.Started = t
	return run, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			region TEXT NOT NULL,
			seed INTEGER NOT NULL,
			episodes INTEGER NOT NULL,
			started TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS rewards (
			run_id TEXT NOT NULL,
			episode INTEGER NOT NULL,
			reward REAL NOT NULL,
			PRIMARY KEY (run_id, episode)
		);
	`)
	return err
}
