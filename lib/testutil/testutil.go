package testutil

import (
	"database/sql"
	"testing"

	"ulhiking-backend/lib/sqliteutil"
)

// OpenMemoryDB opens an in-memory sqlite database with `schema` applied and
// closes it when the test finishes.
func OpenMemoryDB(t testing.TB, schema string) *sql.DB {
	db, err := sqliteutil.Config{File: ":memory:"}.OpenDB(schema)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
