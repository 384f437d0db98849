// Package testdb opens throwaway databases for tests.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns an empty in-memory SQLite database that lives as long as t.
// The pool holds a single connection so every query sees the same memory
// database; code under test must not query outside an open transaction.
func Open(t testing.TB, migrate func(*gorm.DB) error) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if migrate != nil {
		if err := migrate(db); err != nil {
			t.Fatalf("migrating: %v", err)
		}
	}
	return db
}
