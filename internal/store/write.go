package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/lodestone/internal/entity"
)

// execer is the statement-execution surface shared by *sql.DB and
// *sql.Tx. Every write statement runs through it, so the same statement
// can execute standalone or inside an open transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tx exposes the store's write operations inside an open transaction.
// Obtain one through Update; the writes commit or roll back together.
type Tx struct {
	tx *sql.Tx
}

// Update runs fn inside a single transaction. When fn returns an error the
// transaction rolls back and the error is returned unchanged; otherwise
// the transaction commits. The kernel runs each mutation's entity writes
// and its audit append through one Update call so they land together or
// not at all.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update: commit: %w", err)
	}
	return nil
}

func putTask(ctx context.Context, db execer, t entity.Task) error {
	body, err := encodeBody(&t)
	if err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO tasks (id, body) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body
	`, t.Meta.ID, body)
	if err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

func deleteTask(ctx context.Context, db execer, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func putEdge(ctx context.Context, db execer, e entity.Edge) error {
	body, err := encodeBody(&e)
	if err != nil {
		return fmt.Errorf("put edge: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO edges (id, source, target, body) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET source = excluded.source, target = excluded.target, body = excluded.body
	`, e.ID, e.Source, e.Target, body)
	if err != nil {
		return fmt.Errorf("put edge: %w", err)
	}
	return nil
}

func deleteEdge(ctx context.Context, db execer, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM edges WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	return nil
}

func deleteEdgesTouching(ctx context.Context, db execer, taskID string) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM edges WHERE source = ? OR target = ?`, taskID, taskID)
	if err != nil {
		return 0, fmt.Errorf("cascade edges for %s: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cascade edges for %s: %w", taskID, err)
	}
	return n, nil
}

func putRoutine(ctx context.Context, db execer, r entity.Routine) error {
	body, err := encodeBody(&r)
	if err != nil {
		return fmt.Errorf("put routine: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO routines (id, body) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body
	`, r.Meta.ID, body)
	if err != nil {
		return fmt.Errorf("put routine: %w", err)
	}
	return nil
}

func deleteRoutine(ctx context.Context, db execer, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM routines WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	return nil
}

func putPreferences(ctx context.Context, db execer, p entity.Preferences) error {
	body, err := encodeBody(&p)
	if err != nil {
		return fmt.Errorf("put preferences: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO preferences (id, body) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body
	`, preferencesKey, body)
	if err != nil {
		return fmt.Errorf("put preferences: %w", err)
	}
	return nil
}

func appendAudit(ctx context.Context, db execer, e entity.AuditEntry) error {
	body, err := encodeBody(&e)
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	_, err = db.ExecContext(ctx, `INSERT INTO audit (id, body) VALUES (?, ?)`, e.ID, body)
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("append audit %s: %w", e.ID, ErrDuplicateAuditID)
		}
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

// PutTask upserts a task by id.
func (s *Store) PutTask(ctx context.Context, t entity.Task) error {
	return putTask(ctx, s.db, t)
}

// DeleteTask removes a task if present. No error when the id is absent.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return deleteTask(ctx, s.db, id)
}

// PutEdge upserts an edge by id.
func (s *Store) PutEdge(ctx context.Context, e entity.Edge) error {
	return putEdge(ctx, s.db, e)
}

// DeleteEdge removes an edge if present. No error when the id is absent.
func (s *Store) DeleteEdge(ctx context.Context, id string) error {
	return deleteEdge(ctx, s.db, id)
}

// DeleteEdgesTouching removes every edge whose source or target equals
// taskID and returns how many were removed. Used by task deletion to
// cascade; the kernel audits the task deletion once, not each edge.
func (s *Store) DeleteEdgesTouching(ctx context.Context, taskID string) (int64, error) {
	return deleteEdgesTouching(ctx, s.db, taskID)
}

// PutRoutine upserts a routine by id.
func (s *Store) PutRoutine(ctx context.Context, r entity.Routine) error {
	return putRoutine(ctx, s.db, r)
}

// DeleteRoutine removes a routine if present. No error when the id is absent.
func (s *Store) DeleteRoutine(ctx context.Context, id string) error {
	return deleteRoutine(ctx, s.db, id)
}

// PutPreferences stores the singleton preferences record.
func (s *Store) PutPreferences(ctx context.Context, p entity.Preferences) error {
	return putPreferences(ctx, s.db, p)
}

// AppendAudit inserts an audit entry. Unlike the Put* operations this is a
// plain INSERT: writing an entry whose id already exists returns
// ErrDuplicateAuditID instead of overwriting. Entries are never updated or
// deleted through any Store method.
func (s *Store) AppendAudit(ctx context.Context, e entity.AuditEntry) error {
	return appendAudit(ctx, s.db, e)
}

// PutTask upserts a task within the transaction.
func (x *Tx) PutTask(ctx context.Context, t entity.Task) error {
	return putTask(ctx, x.tx, t)
}

// DeleteTask removes a task within the transaction.
func (x *Tx) DeleteTask(ctx context.Context, id string) error {
	return deleteTask(ctx, x.tx, id)
}

// PutEdge upserts an edge within the transaction.
func (x *Tx) PutEdge(ctx context.Context, e entity.Edge) error {
	return putEdge(ctx, x.tx, e)
}

// DeleteEdge removes an edge within the transaction.
func (x *Tx) DeleteEdge(ctx context.Context, id string) error {
	return deleteEdge(ctx, x.tx, id)
}

// DeleteEdgesTouching cascades edge deletion within the transaction.
func (x *Tx) DeleteEdgesTouching(ctx context.Context, taskID string) (int64, error) {
	return deleteEdgesTouching(ctx, x.tx, taskID)
}

// PutRoutine upserts a routine within the transaction.
func (x *Tx) PutRoutine(ctx context.Context, r entity.Routine) error {
	return putRoutine(ctx, x.tx, r)
}

// DeleteRoutine removes a routine within the transaction.
func (x *Tx) DeleteRoutine(ctx context.Context, id string) error {
	return deleteRoutine(ctx, x.tx, id)
}

// PutPreferences stores the singleton preferences record within the
// transaction.
func (x *Tx) PutPreferences(ctx context.Context, p entity.Preferences) error {
	return putPreferences(ctx, x.tx, p)
}

// AppendAudit inserts an audit entry within the transaction. A duplicate
// id returns ErrDuplicateAuditID and the caller's rollback discards every
// write made so far.
func (x *Tx) AppendAudit(ctx context.Context, e entity.AuditEntry) error {
	return appendAudit(ctx, x.tx, e)
}

// Snapshot is the unit ReplaceCollections swaps in atomically. The audit
// log is absent: it is owned by the live session and only grows.
type Snapshot struct {
	Tasks       []entity.Task
	Edges       []entity.Edge
	Routines    []entity.Routine
	Preferences *entity.Preferences
}

// ReplaceCollections clears and repopulates the tasks, edges, routines and
// preferences collections within the transaction. Used only by import so
// a partial or interrupted import cannot leave the store half-old,
// half-new. Inserts are plain, not upserts: a document carrying duplicate
// ids violates the primary key and fails the whole replace. A nil
// Preferences leaves the preferences collection empty.
func (x *Tx) ReplaceCollections(ctx context.Context, snap Snapshot) error {
	for _, table := range []string{"tasks", "edges", "routines", "preferences"} {
		if _, err := x.tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("replace all: clear %s: %w", table, err)
		}
	}

	for _, t := range snap.Tasks {
		body, err := encodeBody(&t)
		if err != nil {
			return fmt.Errorf("replace all: task %s: %w", t.Meta.ID, err)
		}
		if _, err := x.tx.ExecContext(ctx, `INSERT INTO tasks (id, body) VALUES (?, ?)`, t.Meta.ID, body); err != nil {
			return fmt.Errorf("replace all: task %s: %w", t.Meta.ID, err)
		}
	}
	for _, e := range snap.Edges {
		body, err := encodeBody(&e)
		if err != nil {
			return fmt.Errorf("replace all: edge %s: %w", e.ID, err)
		}
		if _, err := x.tx.ExecContext(ctx, `INSERT INTO edges (id, source, target, body) VALUES (?, ?, ?, ?)`, e.ID, e.Source, e.Target, body); err != nil {
			return fmt.Errorf("replace all: edge %s: %w", e.ID, err)
		}
	}
	for _, r := range snap.Routines {
		body, err := encodeBody(&r)
		if err != nil {
			return fmt.Errorf("replace all: routine %s: %w", r.Meta.ID, err)
		}
		if _, err := x.tx.ExecContext(ctx, `INSERT INTO routines (id, body) VALUES (?, ?)`, r.Meta.ID, body); err != nil {
			return fmt.Errorf("replace all: routine %s: %w", r.Meta.ID, err)
		}
	}
	if snap.Preferences != nil {
		body, err := encodeBody(snap.Preferences)
		if err != nil {
			return fmt.Errorf("replace all: preferences: %w", err)
		}
		if _, err := x.tx.ExecContext(ctx, `INSERT INTO preferences (id, body) VALUES (?, ?)`, preferencesKey, body); err != nil {
			return fmt.Errorf("replace all: preferences: %w", err)
		}
	}
	return nil
}

// ReplaceAll runs ReplaceCollections in its own transaction.
func (s *Store) ReplaceAll(ctx context.Context, snap Snapshot) error {
	return s.Update(ctx, func(tx *Tx) error {
		return tx.ReplaceCollections(ctx, snap)
	})
}
