// Package entity provides the data model types for lodestone, together
// with the canonical serializer and content hasher used for integrity
// checking.
//
// This package contains type definitions and pure functions only. All other
// internal packages import entity; entity imports nothing internal. This
// ensures the model remains the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - All JSON tags use camelCase (normative for the .lds.json export format
//     and for content hashing)
//   - Every Task and Routine carries a Meta block whose ContentHash is
//     SHA-256 over the entity's canonical form with the hash field cleared
//   - Timestamps serialize as RFC 3339 UTC
package entity
