// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a named in-memory sqlite database. Connections
// using the same name share one database.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	return sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
}

// NewBunDB returns a Bun handle over a fresh in-memory sqlite database that
// is closed when the test ends.
func NewBunDB(tb testing.TB, name string) *bun.DB {
	tb.Helper()
	sqldb, err := NewSQLiteMemoryDB(name)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = db.Close() })
	return db
}
