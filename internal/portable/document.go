package portable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/lodestone/internal/entity"
)

// Version is the export document format version.
const Version = "1"

// FileExtension is the conventional suffix for exported documents.
const FileExtension = ".lds.json"

// Document is the portable form of the full store.
//
// Tasks, Edges, Routines and Audit always serialize as arrays (never
// null); Preferences serializes as an object or null. Field order here is
// the normative top-level order of the export format.
type Document struct {
	Version     string              `json:"version"`
	Tasks       []entity.Task       `json:"tasks"`
	Edges       []entity.Edge       `json:"edges"`
	Routines    []entity.Routine    `json:"routines"`
	Audit       []entity.AuditEntry `json:"audit"`
	Preferences *entity.Preferences `json:"preferences"`
}

// Encode renders the document as indented JSON without HTML escaping.
func Encode(doc *Document) ([]byte, error) {
	// Nil slices would render as null; the format promises arrays.
	if doc.Tasks == nil {
		doc.Tasks = []entity.Task{}
	}
	if doc.Edges == nil {
		doc.Edges = []entity.Edge{}
	}
	if doc.Routines == nil {
		doc.Routines = []entity.Routine{}
	}
	if doc.Audit == nil {
		doc.Audit = []entity.AuditEntry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses an export document. It accepts documents without audit
// or preferences fields; missing collections come back as empty.
func Decode(data []byte) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	// Reject trailing garbage after the document object.
	if dec.More() {
		return nil, fmt.Errorf("decode document: trailing data after document")
	}
	return &doc, nil
}

// Filename builds the conventional export file name for a label, e.g.
// Filename("backup-2026-03-14") -> "backup-2026-03-14.lds.json".
func Filename(label string) string {
	if strings.HasSuffix(label, FileExtension) {
		return label
	}
	return label + FileExtension
}
