package report

import (
	"bytes"
	"encoding/json"
)

// Row is an ordered column/value list that marshals as a JSON object in
// column order, so a rendered record reads in the file's field order rather
// than Go's randomised map order.
type Row struct {
	Pairs []KV
}

// KV is a single column/value entry. Value may be nil (rendered as JSON
// null), a string, a number or a bool.
type KV struct {
	Key   string
	Value any
}

// Set appends a column/value pair.
func (r *Row) Set(key string, value any) {
	r.Pairs = append(r.Pairs, KV{Key: key, Value: value})
}

// MarshalJSON emits the pairs as a JSON object in insertion order. Keys and
// values are individually escaped to stay safe for diacritics and quotes.
func (r Row) MarshalJSON() ([]byte, error) {
	if len(r.Pairs) == 0 {
		return []byte(`{}`), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r.Pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the row as compact JSON for "Row N: {...}" report lines.
func (r Row) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(b)
}
