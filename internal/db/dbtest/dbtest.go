// Package dbtest opens isolated in-memory databases for service tests.
package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"truth-or-dare/internal/db"
)

// Open returns a migrated in-memory database. The connection pool is capped
// at one so every gorm session sees the same :memory: database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("access underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate in-memory database: %v", err)
	}
	return conn
}
