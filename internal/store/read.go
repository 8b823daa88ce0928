package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lodestone/internal/entity"
)

// Tasks returns every task in the store. Order is unspecified.
func (s *Store) Tasks(ctx context.Context) ([]entity.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	defer rows.Close()

	var out []entity.Task
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("read tasks: %w", err)
		}
		var t entity.Task
		if err := decodeBody(body, &t); err != nil {
			return nil, fmt.Errorf("read tasks: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return out, nil
}

// Task returns a single task by id. The second result is false when no
// task with that id exists.
func (s *Store) Task(ctx context.Context, id string) (entity.Task, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM tasks WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Task{}, false, nil
	}
	if err != nil {
		return entity.Task{}, false, fmt.Errorf("read task %s: %w", id, err)
	}
	var t entity.Task
	if err := decodeBody(body, &t); err != nil {
		return entity.Task{}, false, fmt.Errorf("read task %s: %w", id, err)
	}
	return t, true, nil
}

// Edges returns every edge in the store. Order is unspecified.
func (s *Store) Edges(ctx context.Context) ([]entity.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM edges`)
	if err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}
	defer rows.Close()

	var out []entity.Edge
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("read edges: %w", err)
		}
		var e entity.Edge
		if err := decodeBody(body, &e); err != nil {
			return nil, fmt.Errorf("read edges: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}
	return out, nil
}

// Routines returns every routine in the store. Order is unspecified.
func (s *Store) Routines(ctx context.Context) ([]entity.Routine, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM routines`)
	if err != nil {
		return nil, fmt.Errorf("read routines: %w", err)
	}
	defer rows.Close()

	var out []entity.Routine
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("read routines: %w", err)
		}
		var r entity.Routine
		if err := decodeBody(body, &r); err != nil {
			return nil, fmt.Errorf("read routines: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read routines: %w", err)
	}
	return out, nil
}

// AuditEntries returns the whole audit log in unspecified stored order.
// Call sites sort by timestamp before display.
func (s *Store) AuditEntries(ctx context.Context) ([]entity.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM audit`)
	if err != nil {
		return nil, fmt.Errorf("read audit: %w", err)
	}
	defer rows.Close()

	var out []entity.AuditEntry
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("read audit: %w", err)
		}
		var e entity.AuditEntry
		if err := decodeBody(body, &e); err != nil {
			return nil, fmt.Errorf("read audit: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read audit: %w", err)
	}
	return out, nil
}

// AuditCount returns the number of audit entries.
func (s *Store) AuditCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit: %w", err)
	}
	return n, nil
}

// Preferences returns the singleton preferences record. The second result
// is false when none has been stored yet.
func (s *Store) Preferences(ctx context.Context) (entity.Preferences, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM preferences WHERE id = ?`, preferencesKey).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Preferences{}, false, nil
	}
	if err != nil {
		return entity.Preferences{}, false, fmt.Errorf("read preferences: %w", err)
	}
	var p entity.Preferences
	if err := decodeBody(body, &p); err != nil {
		return entity.Preferences{}, false, fmt.Errorf("read preferences: %w", err)
	}
	return p, true, nil
}

// IsInitialized reports whether at least one task exists. Used to decide
// whether to seed example data on first run; seeding itself is the CLI's
// job, never the store's or the kernel's.
func (s *Store) IsInitialized(ctx context.Context) (bool, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return false, fmt.Errorf("check initialized: %w", err)
	}
	return n > 0, nil
}
