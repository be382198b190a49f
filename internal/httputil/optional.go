package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional tracks presence for partial-update request fields.
//   - Present=false: field absent from JSON (leave unchanged)
//   - Present=true, Null=true: field is JSON null
//   - Present=true, Null=false: Value holds the decoded field
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Null = true
		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

// Ptr returns nil when the field was absent or null, else a pointer to Value.
func (o *Optional[T]) Ptr() *T {
	if !o.Present || o.Null {
		return nil
	}
	return &o.Value
}
