package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
)

func openMigrated(t *testing.T) *DB {
	t.Helper()
	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openMigrated(t)
	ctx := context.Background()

	var name string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", "flags").Scan(&name)
	if err != nil {
		t.Fatalf("Table flags not found: %v", err)
	}

	// running again is a no-op
	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", count)
	}
}

func TestUpsertFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openMigrated(t)
	ctx := context.Background()

	for _, v := range []string{"0.5", "0.8"} {
		if _, err := db.ExecContext(ctx, db.Dialect.UpsertFlagQuery(), "dev-1", "volume_calma", v); err != nil {
			t.Fatalf("upsert %s: %v", v, err)
		}
	}

	var value string
	err := db.QueryRowContext(ctx, "SELECT flag_value FROM flags WHERE device_id = ? AND flag_key = ?", "dev-1", "volume_calma").Scan(&value)
	if err != nil {
		t.Fatal(err)
	}
	if value != "0.8" {
		t.Errorf("flag_value = %q, want 0.8", value)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openMigrated(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, db.Dialect.UpsertFlagQuery(), "dev-1", "brinle_auth", "true")
		return err
	})
	if err != nil {
		t.Fatalf("committed transaction failed: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tx.ExecContext(ctx, db.Dialect.UpsertFlagQuery(), "dev-2", "brinle_auth", "true"); err != nil {
		tx.Rollback()
		t.Fatal(err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM flags").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 flag after rollback, got %d", count)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openMigrated(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, db.Dialect.UpsertFlagQuery(), "dev-1", "brinle_user", "meuappbrinle"); err != nil {
		t.Fatalf("Failed to create test flag: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var value string
			err := db.QueryRowContext(ctx, "SELECT flag_value FROM flags WHERE device_id = ? AND flag_key = ?", "dev-1", "brinle_user").Scan(&value)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
				return
			}
			if value != "meuappbrinle" {
				t.Errorf("Expected 'meuappbrinle', got '%s'", value)
			}
		}()
	}
	wg.Wait()
}
