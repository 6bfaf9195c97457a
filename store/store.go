package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	customerrors "shift-scheduler/errors"
	"shift-scheduler/metrics"
	"shift-scheduler/models"

	"github.com/GuiaBolso/darwin"
	"github.com/diegoclair/sqlmigrator"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migrate creates or upgrades the run history schema.
func Migrate(db *sql.DB) error {
	migrator := sqlmigrator.New(db, darwin.SqliteDialect{})

	return migrator.Migrate(sqlFiles, "sql")
}

// Store keeps the history of scheduling runs in SQLite.
type Store struct {
	db *sql.DB
}

// New opens the database at path and applies pending migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes the run and all of its assignments in one transaction.
func (s *Store) SaveRun(ctx context.Context, run *models.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := saveRun(ctx, tx, run); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	metrics.StoreRunsSavedTotal.Inc()
	return nil
}

func saveRun(ctx context.Context, tx *sql.Tx, run *models.Run) error {
	schedule := run.Schedule
	query := `
		INSERT INTO schedule_runs (id, seed, min_per_shift, employees, understaffed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, query,
		run.ID,
		int64(run.Seed),
		schedule.MinPerShift(),
		len(schedule.Workload()),
		len(schedule.Understaffed()),
		run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedule_assignments (run_id, day, shift, position, employee)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare assignment insert: %w", err)
	}
	defer stmt.Close()

	for _, slot := range models.AllSlots() {
		for position, name := range schedule.Employees(slot.Day, slot.Shift) {
			if _, err := stmt.ExecContext(ctx, run.ID, int(slot.Day), string(slot.Shift), position, name); err != nil {
				return fmt.Errorf("failed to create assignment: %w", err)
			}
		}
	}
	return nil
}

// GetRun loads a stored run and rebuilds its schedule.
func (s *Store) GetRun(ctx context.Context, id string) (*models.Run, error) {
	run := &models.Run{ID: id}
	var (
		seed        int64
		minPerShift int
	)

	query := `SELECT seed, min_per_shift, created_at FROM schedule_runs WHERE id = ?`
	err := s.db.QueryRowContext(ctx, query, id).Scan(&seed, &minPerShift, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", customerrors.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Seed = uint64(seed)

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, shift, employee
		FROM schedule_assignments
		WHERE run_id = ?
		ORDER BY day, shift, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer rows.Close()

	assignments := make(map[models.Slot][]string)
	for rows.Next() {
		var (
			day   int
			shift string
			name  string
		)
		if err := rows.Scan(&day, &shift, &name); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		slot := models.Slot{Day: models.Day(day), Shift: models.Shift(shift)}
		assignments[slot] = append(assignments[slot], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}

	run.Schedule = models.NewWeeklySchedule(assignments, minPerShift)
	return run, nil
}

// ListRuns returns up to limit run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	query := `
		SELECT id, seed, created_at, employees, understaffed
		FROM schedule_runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunSummary
	for rows.Next() {
		var (
			summary models.RunSummary
			seed    int64
		)
		if err := rows.Scan(&summary.ID, &seed, &summary.CreatedAt, &summary.Employees, &summary.Understaffed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		summary.Seed = uint64(seed)
		summary.CreatedAt = summary.CreatedAt.In(time.UTC)
		runs = append(runs, summary)
	}

	return runs, rows.Err()
}
