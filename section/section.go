// Package section parses tagged free text produced by a language model into
// an ordered label→body mapping.
//
// The upstream prompt asks the model to emit sections in the form
//
//	[LabelName]
//	body line
//	body line
//
// but nothing guarantees the model follows the convention. Parse therefore
// never fails: untagged input yields an empty map, and ParseOrFallback lets
// callers keep the raw response under a default key instead of dropping it.
package section

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Map is an insertion-ordered mapping from section label to body text.
// Keys are unique: setting an existing key overwrites its value but keeps
// the key's original position.
type Map struct {
	keys   []string
	values map[string]string
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]string)}
}

// Set stores value under key, overwriting any previous value.
func (m *Map) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it is present.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the labels in insertion order. The returned slice is a copy.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order as encountered.
func (m *Map) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.values = make(map[string]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key := kt.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return err
		}
		m.Set(key, val)
	}
	_, err = dec.Token() // closing brace
	return err
}

// Render reconstructs the tagged-text form of the map: for every entry, the
// label line followed by the body, entries separated by a blank line. Parsing
// the rendered form reproduces the map, provided no body line itself matches
// the label-line rule.
func (m *Map) Render() string {
	var b strings.Builder
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteByte('[')
		b.WriteString(k)
		b.WriteByte(']')
		if v := m.values[k]; v != "" {
			b.WriteByte('\n')
			b.WriteString(v)
		}
	}
	return b.String()
}

// isLabelLine reports whether the trimmed line opens a new section.
func isLabelLine(trimmed string) bool {
	return len(trimmed) >= 2 && trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']'
}

// Parse converts a block of tagged text into a Map.
//
// A line whose trimmed form starts with '[' and ends with ']' opens a new
// section; the label is the text between the first and last bracket of the
// trimmed line (one character stripped from each end, not a pattern match, so
// "[A] text [B]" yields the label "A] text [B"). Non-blank lines after a
// label are buffered unstripped and joined with newlines; the joined body is
// trimmed when the section is finalized. Blank lines and lines before the
// first label are discarded. A label seen twice keeps its first position but
// takes the later body.
//
// Parse is pure and handles any input, including adjacent labels (empty body)
// and input with no labels at all (empty map).
func Parse(raw string) *Map {
	m := NewMap()

	var label string
	var open bool
	var buf []string

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if isLabelLine(trimmed) {
			if open {
				m.Set(label, strings.TrimSpace(strings.Join(buf, "\n")))
			}
			label = trimmed[1 : len(trimmed)-1]
			open = true
			buf = buf[:0]
			continue
		}
		if open && trimmed != "" {
			buf = append(buf, line)
		}
	}
	if open {
		m.Set(label, strings.TrimSpace(strings.Join(buf, "\n")))
	}
	return m
}

// ParseOrFallback parses raw and, when no label lines were found at all,
// substitutes a single entry keeping the whole untrimmed response under
// fallbackKey. This signals that the producer ignored the tagging convention
// without treating it as a failure.
func ParseOrFallback(raw, fallbackKey string) *Map {
	m := Parse(raw)
	if m.Len() == 0 {
		m.Set(fallbackKey, raw)
	}
	return m
}
