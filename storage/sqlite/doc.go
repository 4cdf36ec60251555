// Package sqlite stores the dump in a SQLite database using the pure Go
// modernc.org/sqlite driver.
//
// The dump lives in one table:
//
//	CREATE TABLE word_forms (
//		seq         INTEGER NOT NULL,
//		word        TEXT    NOT NULL,
//		form        TEXT    NOT NULL,
//		description TEXT    NOT NULL
//	);
//
// The table is created by the first save. Every save replaces all rows in a
// single transaction. The table has no uniqueness constraint: duplicate
// keys are reported by the store when it loads the dump.
package sqlite
