package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the deterministic string form of a
// JSON-compatible value. This is the ONLY serialization that may be used as
// content-hash input: two semantically equal values (regardless of object
// key order in the input) always produce identical bytes.
//
// Rules:
//   - nil -> null
//   - booleans -> true / false
//   - strings -> JSON-quoted, NFC normalized, no HTML escaping
//   - numbers -> integer literal when integral, otherwise Go shortest
//     round-trip formatting (see formatNumber for the pinned rule)
//   - arrays -> elements canonicalized recursively, joined with ","
//   - objects -> keys sorted byte-wise, "key":value pairs joined with ","
//
// Accepted inputs: nil, bool, string, int, int64, float64, json.Number,
// []any, map[string]any, plus the model's enum string types via their
// underlying string (callers convert structs with ToCanonicalValue).
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		appendCanonicalString(buf, val)
	case json.Number:
		s, err := formatNumber(val)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float64:
		buf.WriteString(formatFloat(val))
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		// Byte-wise sort over UTF-8. This pins the key-ordering rule for
		// hash stability; it is NOT UTF-16 code-unit order.
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := appendCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for canonical form: %T", v)
	}
	return nil
}

// appendCanonicalString writes a JSON-quoted string with NFC normalization.
// Only quote, backslash and control characters below U+0020 are escaped;
// <, >, & and U+2028/U+2029 are written literally.
func appendCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// formatNumber renders a json.Number deterministically regardless of its
// source text: 1e2 and 100 both canonicalize to "100".
//
// Pinned rule: integral values render as base-10 integer literals;
// everything else uses strconv's shortest round-trip 'g' formatting for
// float64. Values that survive JSON parsing only as floats (beyond int64
// range or fractional) therefore inherit float64 precision - a known edge
// case of the format.
func formatNumber(n json.Number) (string, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return "", fmt.Errorf("canonical number %q: %w", s, err)
	}
	return formatFloat(f), nil
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) && f >= -1e15 && f <= 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToCanonicalValue converts any JSON-encodable struct into the plain
// map/slice form MarshalCanonical accepts, preserving number fidelity via
// json.Number. This is the bridge between the typed model and the
// canonical serializer.
func ToCanonicalValue(v any) (any, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canonical value: %w", err)
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("canonical value: %w", err)
	}
	return out, nil
}
