// Package kernel implements the mutation service at the heart of
// lodestone: task, edge, routine and preferences lifecycle operations over
// the entity store, each paired with exactly one append-only audit entry.
//
// A Kernel is an explicit service object constructed once per process with
// its storage dependency injected; presentation layers receive it by value
// passing, never ambient lookup. All mutations run under a single mutex,
// and each mutation's store writes (the entity write plus its audit
// append) run in one transaction, so every exposed operation is
// atomic-or-failed: it either fully persists, audits and updates the
// mirror, or it fails leaving durable state untouched.
//
// The in-memory mirror consumed by views is maintained by a pure reducer
// (see state.go) driven from completed-operation events, so persisted and
// in-memory state cannot diverge: the reducer only ever sees entities that
// were already written durably.
//
// Error classification follows a small fixed taxonomy (see errors.go):
// VALIDATION, NOT_FOUND, STORAGE, INTEGRITY_MISMATCH, PARSE. Audit entries
// are written only for operations that successfully persisted; a failed
// operation leaves no trace anywhere.
package kernel
