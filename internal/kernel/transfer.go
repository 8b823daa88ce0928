package kernel

import (
	"context"
	"sort"
	"strconv"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/portable"
	"github.com/roach88/lodestone/internal/store"
)

// ExportAll reads every collection into a portable document and appends
// one kernel_exported audit entry. The document's collections are sorted
// by id (audit by timestamp, then id) so repeated exports of identical
// state produce identical bytes; the exported audit array does not include
// the kernel_exported entry the export itself emits.
func (k *Kernel) ExportAll(ctx context.Context) (*portable.Document, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	tasks, err := k.store.Tasks(ctx)
	if err != nil {
		return nil, storageErr("export tasks", err)
	}
	edges, err := k.store.Edges(ctx)
	if err != nil {
		return nil, storageErr("export edges", err)
	}
	routines, err := k.store.Routines(ctx)
	if err != nil {
		return nil, storageErr("export routines", err)
	}
	audit, err := k.store.AuditEntries(ctx)
	if err != nil {
		return nil, storageErr("export audit", err)
	}
	prefs, found, err := k.store.Preferences(ctx)
	if err != nil {
		return nil, storageErr("export preferences", err)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Meta.ID < tasks[j].Meta.ID })
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	sort.Slice(routines, func(i, j int) bool { return routines[i].Meta.ID < routines[j].Meta.ID })
	sort.Slice(audit, func(i, j int) bool {
		if !audit[i].Timestamp.Equal(audit[j].Timestamp) {
			return audit[i].Timestamp.Before(audit[j].Timestamp)
		}
		return audit[i].ID < audit[j].ID
	})

	doc := &portable.Document{
		Version:  portable.Version,
		Tasks:    tasks,
		Edges:    edges,
		Routines: routines,
		Audit:    audit,
	}
	if found {
		doc.Preferences = &prefs
	}

	details := map[string]string{
		"tasks":    strconv.Itoa(len(tasks)),
		"edges":    strconv.Itoa(len(edges)),
		"routines": strconv.Itoa(len(routines)),
	}
	err = k.mutate(ctx, func(tx *store.Tx) error {
		return k.audit(ctx, tx, entity.ActionExported, entity.EntityKernel, "kernel", details)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ImportResult reports what an import replaced and which imported entities
// failed their integrity check.
type ImportResult struct {
	Tasks    int
	Edges    int
	Routines int

	// IntegrityWarnings lists ids whose stored content hash did not match
	// a recomputation. The entities are imported anyway - trusted with a
	// warning - and can be re-checked later via VerifyIntegrity.
	IntegrityWarnings []string
}

// ImportAll validates the document bytes, then replaces the task, edge,
// routine and preferences collections and appends one kernel_imported
// audit entry in a single transaction, then reloads the in-memory mirror
// from the store.
//
// The audit log is NOT replaced: it is additive-only and keeps growing
// across imports. An audit array inside the document is ignored. Any
// validation failure rejects the whole document before the store is
// touched - import fails closed.
func (k *Kernel) ImportAll(ctx context.Context, data []byte) (*ImportResult, error) {
	doc, err := portable.Decode(data)
	if err != nil {
		return nil, parseErr("import document is malformed", err)
	}
	if err := portable.Validate(data); err != nil {
		return nil, parseErr("import document rejected by schema", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	var warnings []string
	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		if err := entity.VerifyEntity(t, t.Meta.ContentHash); err != nil {
			warnings = append(warnings, t.Meta.ID)
		}
	}
	for i := range doc.Routines {
		r := &doc.Routines[i]
		if err := entity.VerifyEntity(r, r.Meta.ContentHash); err != nil {
			warnings = append(warnings, r.Meta.ID)
		}
	}

	snap := store.Snapshot{
		Tasks:       doc.Tasks,
		Edges:       doc.Edges,
		Routines:    doc.Routines,
		Preferences: doc.Preferences,
	}
	details := map[string]string{
		"tasks":    strconv.Itoa(len(doc.Tasks)),
		"edges":    strconv.Itoa(len(doc.Edges)),
		"routines": strconv.Itoa(len(doc.Routines)),
	}
	if len(warnings) > 0 {
		details["integrityWarnings"] = strconv.Itoa(len(warnings))
	}
	err = k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.ReplaceCollections(ctx, snap); err != nil {
			return storageErr("replace collections", err)
		}
		return k.audit(ctx, tx, entity.ActionImported, entity.EntityKernel, "kernel", details)
	})
	if err != nil {
		return nil, err
	}

	loaded, err := k.loadState(ctx)
	if err != nil {
		return nil, err
	}
	k.apply(Event{Kind: evReloaded, Reloaded: &loaded})

	return &ImportResult{
		Tasks:             len(doc.Tasks),
		Edges:             len(doc.Edges),
		Routines:          len(doc.Routines),
		IntegrityWarnings: warnings,
	}, nil
}

// IntegrityIssue identifies one entity whose stored content hash no longer
// matches a recomputation.
type IntegrityIssue struct {
	EntityType entity.EntityType
	ID         string
	Detail     string
}

// VerifyIntegrity recomputes the content hash of every task and routine
// read from durable storage and reports mismatches. Read-only: no state
// change, no audit entry.
func (k *Kernel) VerifyIntegrity(ctx context.Context) ([]IntegrityIssue, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	var issues []IntegrityIssue

	tasks, err := k.store.Tasks(ctx)
	if err != nil {
		return nil, storageErr("verify tasks", err)
	}
	for i := range tasks {
		t := &tasks[i]
		if err := entity.VerifyEntity(t, t.Meta.ContentHash); err != nil {
			issues = append(issues, IntegrityIssue{EntityType: entity.EntityTask, ID: t.Meta.ID, Detail: integrityErr(t.Meta.ID, err).Error()})
		}
	}

	routines, err := k.store.Routines(ctx)
	if err != nil {
		return nil, storageErr("verify routines", err)
	}
	for i := range routines {
		r := &routines[i]
		if err := entity.VerifyEntity(r, r.Meta.ContentHash); err != nil {
			issues = append(issues, IntegrityIssue{EntityType: entity.EntityRoutine, ID: r.Meta.ID, Detail: integrityErr(r.Meta.ID, err).Error()})
		}
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].ID < issues[j].ID })
	return issues, nil
}
