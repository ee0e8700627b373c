package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Compile-time interface check.
var _ domain.HistoryStore = (*SQLiteStore)(nil)

// SQLiteStore persists run records in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenSQLite opens or creates the SQLite database at path and applies
// migrations. The parent directory is created if missing.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db, log: log}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	log.Debug("history database open at %s", path)
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			exercises INTEGER NOT NULL,
			completed INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_exercises (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			exercise_id TEXT NOT NULL,
			name TEXT NOT NULL,
			muscle_group TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_completed_at ON runs(completed_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save stores a run record and its exercise list in one transaction.
// Saving the same ID again replaces the previous record.
func (s *SQLiteStore) Save(ctx context.Context, rec *domain.SessionRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	completed := 0
	if rec.Completed {
		completed = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, started_at, completed_at, exercises, completed)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.CompletedAt.Format(time.RFC3339Nano),
		rec.Exercises,
		completed,
	)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM run_exercises WHERE run_id = ?`, rec.ID); err != nil {
		return err
	}

	if len(rec.Workout) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO run_exercises (run_id, position, exercise_id, name, muscle_group)
			 VALUES (?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, ex := range rec.Workout {
			if _, err = stmt.ExecContext(ctx, rec.ID, i, ex.ID, ex.Name, string(ex.MuscleGroup)); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	s.log.Debug("saved run %s (exercises=%d)", rec.ID, rec.Exercises)
	return nil
}

// Get retrieves a run record and its exercise list by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, completed_at, exercises, completed FROM runs WHERE id = ?`, id)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.Workout, err = s.loadExercises(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns the most recent runs, newest first. A limit of zero or
// less returns everything.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*domain.SessionRecord, error) {
	query := `SELECT id, started_at, completed_at, exercises, completed
		FROM runs ORDER BY completed_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []*domain.SessionRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range out {
		rec.Workout, err = s.loadExercises(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStore) loadExercises(ctx context.Context, runID string) (domain.Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT exercise_id, name, muscle_group FROM run_exercises
		 WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var workout domain.Workout
	for rows.Next() {
		var ex domain.Exercise
		var group string
		if err := rows.Scan(&ex.ID, &ex.Name, &group); err != nil {
			return nil, err
		}
		ex.MuscleGroup = domain.MuscleGroup(group)
		workout = append(workout, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workout, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*domain.SessionRecord, error) {
	var rec domain.SessionRecord
	var startedAt, completedAt string
	var completed int
	if err := sc.Scan(&rec.ID, &startedAt, &completedAt, &rec.Exercises, &completed); err != nil {
		return nil, err
	}

	var err error
	rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, err
	}
	rec.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt)
	if err != nil {
		return nil, err
	}
	rec.Completed = completed != 0
	return &rec, nil
}
