package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/formdb/model"
	"github.com/hupe1980/formdb/storage"

	_ "modernc.org/sqlite" // SQLite driver
)

// TableName is the table holding the dump.
const TableName = "word_forms"

// ErrClosed is returned after Close.
var ErrClosed = errors.New("sqlite: backend is closed")

// Backend implements storage.Backend on a SQLite database.
type Backend struct {
	db   *sql.DB
	path string

	// mu is held shared by ReadDump and SaveDump and exclusively by Close.
	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Backend, error) {
	// busy_timeout: wait up to 5s for a lock instead of failing immediately
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	// A dump is read and written by one caller at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	return &Backend{db: db, path: path}, nil
}

// Close closes the database. It waits for running reads and saves, and
// later calls fail with ErrClosed. Calling it again is a no-op.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}

// Path returns the database file.
func (b *Backend) Path() string {
	return b.path
}

func (b *Backend) tableExists(ctx context.Context) (bool, error) {
	var n int
	err := b.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, TableName,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReadDump implements storage.Backend.
func (b *Backend) ReadDump(ctx context.Context) ([]model.Record, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, false, ErrClosed
	}

	exists, err := b.tableExists(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: read dump: %w", err)
	}
	if !exists {
		return nil, false, nil
	}

	rows, err := b.db.QueryContext(ctx,
		`SELECT word, form, description FROM `+TableName+` ORDER BY seq`)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: read dump: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.Word, &r.Form, &r.Description); err != nil {
			return nil, false, fmt.Errorf("sqlite: read dump: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("sqlite: read dump: %w", err)
	}
	return records, true, nil
}

// SaveDump implements storage.Backend.
func (b *Backend) SaveDump(ctx context.Context, records []model.Record) (err error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: save dump: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+TableName+` (
		seq         INTEGER NOT NULL,
		word        TEXT    NOT NULL,
		form        TEXT    NOT NULL,
		description TEXT    NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM `+TableName); err != nil {
		return fmt.Errorf("sqlite: save dump: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+TableName+` (seq, word, form, description) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: save dump: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err = stmt.ExecContext(ctx, i, r.Word, r.Form, r.Description); err != nil {
			return fmt.Errorf("sqlite: save dump: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

var _ storage.Backend = (*Backend)(nil)
