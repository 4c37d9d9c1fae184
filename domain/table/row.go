package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one data row keyed by header. Keys keep the header order of the
// sheet they came from; lookups go through the value map.
type Row struct {
	keys   []string
	values map[string]interface{}
}

// NewRow creates a row holding nil for every key. The row keeps its own copy
// of keys.
func NewRow(keys []string) Row {
	r := Row{
		keys:   append([]string(nil), keys...),
		values: make(map[string]interface{}, len(keys)),
	}
	for _, k := range keys {
		r.values[k] = nil
	}
	return r
}

// Get returns the value stored under key and whether the key exists.
func (r Row) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value stored under key, or nil.
func (r Row) Value(key string) interface{} {
	return r.values[key]
}

// Keys returns a copy of the row's keys in order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Row) Len() int {
	return len(r.keys)
}

// MarshalJSON writes the row as an object with keys in header order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cell %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
