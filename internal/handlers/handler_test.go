// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL (or, for auth, Valkey) is
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"pagecms/internal/database"
	"pagecms/internal/middleware"
	"pagecms/internal/models"
	"pagecms/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pagecms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pagecms")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client on DB 15 for token tests.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"token:*", "sections:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds the handler dependencies. The section cache is nil: caching
// has its own tests and every handler must work without Valkey.
type testEnv struct {
	DB       *sql.DB
	Items    *store.ContentStore
	Registry *store.SectionStore
	Audits   *store.AuditStore
	Users    *store.UserStore
	Content  *Content
	Pages    *Pages
	Activity *Activity
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	items := store.NewContentStore(db)
	registry := store.NewSectionStore(db)
	audits := store.NewAuditStore(db)
	users := store.NewUserStore(db)

	return &testEnv{
		DB:       db,
		Items:    items,
		Registry: registry,
		Audits:   audits,
		Users:    users,
		Content:  NewContent(items, audits, nil),
		Pages:    NewPages(registry, audits, nil),
		Activity: NewActivity(audits),
	}
}

// testAdminID returns a valid user ID for attribution.
func testAdminID(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		err = db.QueryRow(`
			INSERT INTO users (email, password_hash, display_name, role)
			VALUES ($1, 'x', 'Handler Test Admin', 'admin')
			RETURNING id
		`, "handler-test-"+uuid.NewString()[:8]+"@example.com").Scan(&id)
	}
	if err != nil {
		t.Fatalf("test admin: %v", err)
	}
	return id
}

// testPage returns a unique page slug and registers cleanup of its content
// and audit rows.
func testPage(t *testing.T, db *sql.DB, prefix string) string {
	t.Helper()
	page := prefix + "-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.Exec("DELETE FROM content_items WHERE page = $1", page)
		db.Exec("DELETE FROM audit_log WHERE page = $1", page)
	})
	return page
}

func adminCaller(id uuid.UUID) *models.Caller {
	return &models.Caller{ID: id, Name: "Test Admin", Role: models.RoleAdmin}
}

// asCaller attaches a caller identity the way LoadCaller does. A nil caller
// leaves the request anonymous.
func asCaller(r *http.Request, caller *models.Caller) *http.Request {
	if caller == nil {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), middleware.CallerKey, caller))
}

// withChiURLParams adds chi URL parameters to a request.
func withChiURLParams(r *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testEnvelope mirrors the response shape with data left raw for per-test
// decoding.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env testEnvelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v (data: %s)", err, env.Data)
	}
}

// seedItem inserts a content block through the store layer.
func seedItem(t *testing.T, env *testEnv, item *models.ContentItem) *models.ContentItem {
	t.Helper()
	stored, _, err := env.Items.Upsert(item)
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return stored
}

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
