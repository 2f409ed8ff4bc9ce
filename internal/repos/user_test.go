package repos

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/types"
)

func newUserRepoForTest(t *testing.T) (UserRepo, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.User{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewUserRepo(gdb, log), gdb
}

func TestGetOrCreateByEmailCreates(t *testing.T) {
	repo, gdb := newUserRepoForTest(t)
	ctx := context.Background()

	user, err := repo.GetOrCreateByEmail(ctx, nil, "a@example.com")
	if err != nil {
		t.Fatalf("GetOrCreateByEmail: %v", err)
	}
	if user == nil || user.Email != "a@example.com" {
		t.Fatalf("user = %+v", user)
	}

	var count int64
	if err := gdb.Model(&types.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("users = %d, want 1", count)
	}
}

func TestGetOrCreateByEmailReusesExistingRow(t *testing.T) {
	repo, gdb := newUserRepoForTest(t)
	ctx := context.Background()

	first, err := repo.GetOrCreateByEmail(ctx, nil, "a@example.com")
	if err != nil {
		t.Fatalf("first GetOrCreateByEmail: %v", err)
	}

	// The second insert conflicts on the email index; it must resolve to the
	// existing row without erroring.
	second, err := repo.GetOrCreateByEmail(ctx, nil, "a@example.com")
	if err != nil {
		t.Fatalf("second GetOrCreateByEmail: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second resolved to %s, want the existing row %s", second.ID, first.ID)
	}

	var count int64
	if err := gdb.Model(&types.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("users = %d, want 1", count)
	}
}

func TestGetOrCreateByEmailInsideTransaction(t *testing.T) {
	repo, gdb := newUserRepoForTest(t)
	ctx := context.Background()

	seed, err := repo.GetOrCreateByEmail(ctx, nil, "a@example.com")
	if err != nil {
		t.Fatalf("seed GetOrCreateByEmail: %v", err)
	}

	// Conflicting inserts must not poison the enclosing transaction: later
	// statements on the same tx still have to succeed.
	err = gdb.Transaction(func(tx *gorm.DB) error {
		user, err := repo.GetOrCreateByEmail(ctx, tx, "a@example.com")
		if err != nil {
			return err
		}
		if user.ID != seed.ID {
			t.Errorf("resolved %s inside tx, want %s", user.ID, seed.ID)
		}
		var count int64
		return tx.Model(&types.User{}).Count(&count).Error
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}
