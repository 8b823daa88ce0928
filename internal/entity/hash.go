package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// metaKey is the JSON name of the metadata block carrying the content hash.
const metaKey = "_lds"

// HashEntity computes the content hash of an entity: SHA-256 over the
// canonical form with the entity's own contentHash field cleared to the
// empty string, rendered as 64 lowercase hex characters.
//
// Pure function; v is not modified. Works on any JSON-encodable value -
// values without a metadata block simply hash as-is.
func HashEntity(v any) (string, error) {
	plain, err := ToCanonicalValue(v)
	if err != nil {
		return "", fmt.Errorf("hash entity: %w", err)
	}
	clearContentHash(plain)
	canonical, err := MarshalCanonical(plain)
	if err != nil {
		return "", fmt.Errorf("hash entity: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// clearContentHash blanks _lds.contentHash in place so the hash never
// covers itself.
func clearContentHash(v any) {
	obj, ok := v.(map[string]any)
	if !ok {
		return
	}
	meta, ok := obj[metaKey].(map[string]any)
	if !ok {
		return
	}
	if _, ok := meta["contentHash"]; ok {
		meta["contentHash"] = ""
	}
}

// VerifyEntity recomputes an entity's content hash and compares it to the
// stored one. A mismatch means the entity was modified outside the kernel
// or corrupted at rest.
func VerifyEntity(v any, storedHash string) error {
	recomputed, err := HashEntity(v)
	if err != nil {
		return err
	}
	if recomputed != storedHash {
		return fmt.Errorf("content hash mismatch: stored %s, recomputed %s", storedHash, recomputed)
	}
	return nil
}

// StampTask recomputes and stores a task's content hash.
func StampTask(t *Task) error {
	t.Meta.ContentHash = ""
	h, err := HashEntity(t)
	if err != nil {
		return err
	}
	t.Meta.ContentHash = h
	return nil
}

// StampRoutine recomputes and stores a routine's content hash.
func StampRoutine(r *Routine) error {
	r.Meta.ContentHash = ""
	h, err := HashEntity(r)
	if err != nil {
		return err
	}
	r.Meta.ContentHash = h
	return nil
}
