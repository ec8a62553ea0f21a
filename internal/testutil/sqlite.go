package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/ajo-backend/internal/db"
	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
)

var sqliteSeq atomic.Int64

// NewSQLiteDB opens a private in-memory SQLite database with foreign keys
// on, migrated like production and seeded with the default roles. It is
// closed when the test ends.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:ajo_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", sqliteSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// One connection keeps every statement on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb, access.DefaultRoles()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
