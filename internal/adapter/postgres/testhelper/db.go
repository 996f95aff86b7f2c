// Package testhelper provisions a migrated PostgreSQL database for
// integration and e2e tests and seeds rows into it.
package testhelper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/apptracker/migrations"
)

// DSNEnv names an existing database to migrate and use instead of starting a
// container, e.g. a CI service database.
const DSNEnv = "TEST_DATABASE_DSN"

const (
	postgresImage = "postgres:17-alpine"
	dbName        = "apptracker"
	dbUser        = "apptracker"
	dbPassword    = "apptracker"
)

// appTables are emptied by Reset, children first.
var appTables = []string{
	"handover_participants", "handover_data", "handover_documents",
	"user_stories", "audit_log", "work_notes", "applications", "users",
}

var shared = sync.OnceValues(func() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		var err error
		if dsn, err = startPostgres(ctx); err != nil {
			return "", err
		}
	}
	if err := migrate(ctx, dsn); err != nil {
		return "", err
	}
	return dsn, nil
})

// SetupTestDB returns a pool on the shared migrated database. The database is
// prepared once per test binary; the pool is closed when t finishes.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn, err := shared()
	if err != nil {
		t.Fatalf("testhelper: setup test DB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("testhelper: connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// Reset truncates every application table. Tests that assert on global
// counts call it first; the rest rely on unique seed data. With DSNEnv shared
// by several packages, run them with -p 1.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	stmt := "TRUNCATE "
	for i, table := range appTables {
		if i > 0 {
			stmt += ", "
		}
		stmt += table
	}
	stmt += " RESTART IDENTITY CASCADE"

	if _, err := pool.Exec(context.Background(), stmt); err != nil {
		t.Fatalf("testhelper: reset: %v", err)
	}
}

func startPostgres(ctx context.Context) (string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       dbName,
				"POSTGRES_USER":     dbUser,
				"POSTGRES_PASSWORD": dbPassword,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start postgres container: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return "", fmt.Errorf("container endpoint: %w", err)
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", dbUser, dbPassword, endpoint, dbName), nil
}

func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
