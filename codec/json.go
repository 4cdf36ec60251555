package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It is kept as a reference implementation next to GoJSON; both produce
// the same bytes for the record types of this module.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("stdjson").
func (JSON) Name() string { return "stdjson" }
