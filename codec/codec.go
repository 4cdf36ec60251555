// Package codec centralizes the structured encodings used to export
// records, e.g. by the formdb command's JSON output.
//
// The dump format itself is TSV (see storage/tsv); codecs are only used for
// exchange formats that are not read back by a backend.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name. "json" is Default.
func ByName(name string) (Codec, error) {
	switch name {
	case "json":
		return Default, nil
	case "go-json":
		return GoJSON{}, nil
	case "stdjson":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}

// Default is the default codec used by the library.
var Default Codec = GoJSON{}
