package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedMap preserves field insertion order on encode, producing the
// canonical stable byte form spec.md §4.H requires regardless of Go
// map iteration order.
type orderedMap struct {
	keys   []string
	values map[string]any
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: make(map[string]any)}
}

func (m *orderedMap) set(key string, value any) *orderedMap {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

func (m *orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// orderedEntry is one member of a JSON object decoded in document order.
type orderedEntry struct {
	Key   string
	Value json.RawMessage
}

// decodeOrderedObject parses raw as a JSON object and returns its members
// in document order, the decode-side counterpart to orderedMap's encode
// ordering. map[string]T decoding randomizes key order; spec.md's
// insertion-ordered containers (hierarchies, ENTITY_DIR, ENTITY_TREE
// children, ASPECT_MAP) need that order preserved across a round trip.
func decodeOrderedObject(raw json.RawMessage) ([]orderedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decodeOrderedObject: expected object, got %v", tok)
	}
	var entries []orderedEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decodeOrderedObject: expected string key, got %v", keyTok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		entries = append(entries, orderedEntry{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}
