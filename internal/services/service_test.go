package services

import (
	"context"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := gdb.AutoMigrate(&types.Upload{}, &types.CallEvent{}, &types.User{}, &types.GraphPoint{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return gdb
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	if err := gdb.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}

// memChartCache is an in-process stand-in for the redis-backed cache.
type memChartCache struct {
	mu          sync.Mutex
	entries     map[string][]types.HourlyCallStat
	invalidated []string
}

func newMemChartCache() *memChartCache {
	return &memChartCache{entries: map[string][]types.HourlyCallStat{}}
}

func (c *memChartCache) Get(ctx context.Context, email string) ([]types.HourlyCallStat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, ok := c.entries[email]
	return rows, ok
}

func (c *memChartCache) Set(ctx context.Context, email string, rows []types.HourlyCallStat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[email] = rows
}

func (c *memChartCache) Invalidate(ctx context.Context, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, email)
	c.invalidated = append(c.invalidated, email)
}

func (c *memChartCache) Close() error { return nil }
