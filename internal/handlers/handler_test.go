// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests run the full router against a real PostgreSQL
// and are skipped when it is unavailable. Valkey-backed pieces (response
// cache, viewer tokens) stay nil; their behavior is covered by their own
// packages.
package handlers_test

import (
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"mediapress/internal/categories"
	"mediapress/internal/database"
	"mediapress/internal/files"
	"mediapress/internal/handlers"
	"mediapress/internal/lifecycle"
	"mediapress/internal/router"
	"mediapress/internal/store"
	"mediapress/internal/tags"
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
	user := envOr("POSTGRES_USER", "mediapress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "mediapress")
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

// testRouter wires the full application router against the test DB, with
// no object storage and no Valkey.
func testRouter(db *sql.DB) chi.Router {
	publicationStore := store.NewPublicationStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	fileStore := store.NewFileStore(db)
	folderStore := store.NewFolderStore(db)
	engagementStore := store.NewEngagementStore(db)

	resolver := tags.NewResolver(tagStore)
	manager := lifecycle.NewManager(publicationStore, fileStore, categoryStore, resolver)
	categoryService := categories.NewService(categoryStore)
	fileService := files.NewService(fileStore, folderStore, nil)

	return router.New(
		handlers.NewPublications(manager, publicationStore, nil),
		handlers.NewCategories(categoryService, nil),
		handlers.NewTags(tagStore, resolver),
		handlers.NewMedia(fileService),
		handlers.NewEngagement(engagementStore, publicationStore, nil),
	)
}

func testUser(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	email := "test-" + uuid.NewString()[:8] + "@mediapress.test"
	var id uuid.UUID
	err := db.QueryRow(`
		INSERT INTO users (email, display_name) VALUES ($1, 'Test User')
		RETURNING id
	`, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", id) })
	return id
}

func testCategory(t *testing.T, db *sql.DB, name string) uuid.UUID {
	t.Helper()
	suffix := uuid.NewString()[:8]
	var id uuid.UUID
	err := db.QueryRow(`
		INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id
	`, name+" "+suffix, "test-"+suffix).Scan(&id)
	if err != nil {
		t.Fatalf("insert test category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", id) })
	return id
}

func testFile(t *testing.T, db *sql.DB, mimeType string) uuid.UUID {
	t.Helper()
	name := "test-" + uuid.NewString()[:8]
	var id uuid.UUID
	err := db.QueryRow(`
		INSERT INTO files (filename, original_name, file_path, mime_type)
		VALUES ($1, $1, $2, $3)
		RETURNING id
	`, name, "uploads/"+name, mimeType).Scan(&id)
	if err != nil {
		t.Fatalf("insert test file: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM files WHERE id = $1", id) })
	return id
}

// authed sets the trusted gateway identity header on a request.
func authed(r *http.Request, userID uuid.UUID) *http.Request {
	r.Header.Set("X-User-ID", userID.String())
	return r
}
