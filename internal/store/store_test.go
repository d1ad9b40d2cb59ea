// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pagecms/internal/database"
	"pagecms/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pagecms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pagecms")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
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

	t.Cleanup(func() { db.Close() })
	return db
}

// testPage returns a unique page slug so concurrent test runs never collide,
// and registers cleanup of everything created on it.
func testPage(t *testing.T, db *sql.DB, prefix string) string {
	t.Helper()
	page := prefix + "-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.Exec("DELETE FROM content_items WHERE page = $1", page)
		db.Exec("DELETE FROM audit_log WHERE page = $1", page)
	})
	return page
}

// testUserID returns any existing user id, creating a throwaway account if
// the database has none.
func testUserID(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&id)
	if err == nil {
		return id
	}

	email := "store-test-" + uuid.NewString()[:8] + "@pagecms.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, 'x', 'Store Test', 'admin')
		RETURNING id
	`, email).Scan(&id)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return id
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// testItem builds a minimal valid content item on the given page.
func testItem(page, sectionKey string) *models.ContentItem {
	return &models.ContentItem{
		Page:        page,
		Section:     sectionKey,
		SectionKey:  sectionKey,
		SectionType: models.SectionTypeText,
		Layout:      models.LayoutDefault,
		SortOrder:   1,
		Title:       models.Bilingual{En: "Test " + sectionKey},
		Content:     models.Bilingual{En: "Body"},
		IsActive:    true,
		IsVisible:   true,
		Version:     1,
	}
}
