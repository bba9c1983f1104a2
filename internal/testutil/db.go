// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"restaurant_service/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to a single connection, so code under test must not
// use the root handle while a transaction is open.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Initialize(database.Options{
		Driver:       "sqlite",
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
