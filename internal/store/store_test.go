// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"investpress/internal/database"
	"investpress/internal/slug"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "investpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "investpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database, runs migrations and
// empties every content table. If the database is unavailable, the test is
// skipped. A cleanup function is registered to close the connection when
// the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	resetTables(t, db)
	t.Cleanup(func() { db.Close() })
	return db
}

// resetTables truncates every content table and the slug table.
func resetTables(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		TRUNCATE slugs, landing_pages, investment_objects, articles,
		         article_categories, services, countries
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func testAllocator(langs ...string) *slug.Allocator {
	return slug.NewAllocator(slug.Config{Languages: langs})
}

// slugRows counts the slug rows held by a record.
func slugRows(t *testing.T, db *sql.DB, table string, id int64) int {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM slugs WHERE table_name = $1 AND entity_id = $2`, table, id).Scan(&n)
	if err != nil {
		t.Fatalf("count slugs: %v", err)
	}
	return n
}
