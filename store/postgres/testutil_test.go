package postgres

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authcore/pkg/pg"
)

// setupTestPool connects to the test database and applies every migration
// under db/migrations, mirroring how the service bootstraps in production.
// Skips the suite when PG_TEST_CONN_URL isn't set, since these tests talk
// to a real PostgreSQL instance rather than a fake.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connStr := os.Getenv("PG_TEST_CONN_URL")
	if connStr == "" {
		t.Skip("PG_TEST_CONN_URL not set, skipping postgres integration test")
	}

	ctx := context.Background()
	cfg := pg.Config{
		ConnectionString: connStr,
		MaxOpenConns:      5,
		MaxIdleConns:      1,
		HealthCheckPeriod: 0,
		RetryAttempts:     1,
	}

	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	cfg.MigrationsPath = "../../db/migrations"
	cfg.MigrationsTable = "schema_migrations"
	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	tables := []string{"user_roles", "role_permissions", "permissions", "roles", "guest_sessions", "user_identities", "realms"}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	return pool
}
