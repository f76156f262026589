package database

import (
	"context"
	"os"
	"testing"
	"testing/fstest"
)

func TestRunMigrationsSkipsAppliedFiles(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, url)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer pool.Close()

	fsys := fstest.MapFS{
		"900_test_migrations.up.sql":   {Data: []byte(`CREATE TABLE IF NOT EXISTS migration_probe (id INT)`)},
		"900_test_migrations.down.sql": {Data: []byte(`DROP TABLE migration_probe`)},
	}
	t.Cleanup(func() {
		pool.Exec(ctx, `DROP TABLE IF EXISTS migration_probe`)                                     //nolint:errcheck
		pool.Exec(ctx, `DELETE FROM schema_migrations WHERE filename = '900_test_migrations.up.sql'`) //nolint:errcheck
	})

	for range 2 {
		if err := RunMigrations(ctx, pool, fsys); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}
	}

	var count int
	if err := pool.QueryRow(ctx,
		`SELECT count(*) FROM schema_migrations WHERE filename = '900_test_migrations.up.sql'`).Scan(&count); err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("recorded %d times, want 1", count)
	}
}
