// Package store provides SQLite-backed durable storage for the lodestone
// collections: tasks, edges, routines, audit and preferences.
//
// Each collection is a document table keyed by entity id with the entity's
// JSON body alongside. Edges additionally carry indexed source/target
// columns so cascade deletion does not scan bodies.
//
// # Guarantees
//
//   - Put* upserts; Delete* is a no-op when the id is absent
//   - AppendAudit is a plain INSERT: a duplicate id errors instead of
//     silently overwriting, which is what makes the audit log append-only
//   - Update runs a group of writes in one transaction; Tx carries the
//     same write operations, and they commit or roll back together. The
//     kernel runs every mutation's entity writes plus its audit append
//     through Update.
//   - ReplaceAll clears and repopulates tasks/edges/routines/preferences in
//     one transaction; a failed import can never leave the store half-old,
//     half-new. The audit table is never touched by ReplaceAll.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// Read order is unspecified for every collection; callers sort themselves.
package store
