// Package portable implements the .lds.json export document: the portable
// backup/restore format for the full lodestone store.
//
// A document carries the tasks, edges, routines and audit collections plus
// the preferences singleton (or null). Import ignores the audit array if
// present - the live session's audit log is append-only and never replaced.
//
// Decoding is split from validation: Decode parses the JSON shape,
// Validate checks the document against an embedded CUE schema before any
// store state is touched. Both failures classify as parse errors at the
// kernel boundary, and import fails closed.
package portable
