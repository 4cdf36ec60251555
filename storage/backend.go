package storage

import (
	"context"

	"github.com/hupe1980/formdb/model"
)

// Backend persists the dump of a store.
type Backend interface {
	// ReadDump returns the persisted records in dump order.
	// ok is false, with a nil error, if nothing was ever saved.
	ReadDump(ctx context.Context) (records []model.Record, ok bool, err error)

	// SaveDump replaces the persisted dump with exactly records.
	SaveDump(ctx context.Context, records []model.Record) error
}
