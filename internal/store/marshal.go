package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// encodeBody converts an entity to JSON TEXT for storage. HTML escaping is
// disabled so stored bodies match the export document byte-for-byte.
func encodeBody(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode body: %w", err)
	}
	// Encoder adds a trailing newline, remove it.
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// decodeBody parses stored JSON TEXT into the target entity.
func decodeBody(data string, v any) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
