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

	"mediapress/internal/database"
	"mediapress/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "mediapress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "mediapress")
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

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser inserts a throwaway user row and registers cleanup.
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

// testCategory inserts a throwaway category and registers cleanup.
func testCategory(t *testing.T, db *sql.DB, name string) *models.Category {
	t.Helper()
	suffix := uuid.NewString()[:8]
	var c models.Category
	err := db.QueryRow(`
		INSERT INTO categories (name, slug) VALUES ($1, $2)
		RETURNING `+categoryColumns,
		name+" "+suffix, "test-"+suffix,
	).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverImage,
		&c.ShowOnMenu, &c.MenuOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("insert test category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return &c
}

// testFile inserts a throwaway file row with the given MIME type.
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

// testPublication inserts a draft publication and registers cleanup.
func testPublication(t *testing.T, db *sql.DB, categoryID, creatorID uuid.UUID) *models.Publication {
	t.Helper()
	s := NewPublicationStore(db)
	slug := "test-pub-" + uuid.NewString()[:8]
	p, err := s.Create(&models.Publication{
		Title:      "Test Publication",
		Slug:       slug,
		CategoryID: categoryID,
		CreatorID:  creatorID,
		Status:     models.StatusDraft,
	}, nil, nil)
	if err != nil {
		t.Fatalf("create test publication: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM publications WHERE id = $1", p.ID) })
	return p
}

// cleanTags removes test tags by slug. Call in t.Cleanup().
func cleanTags(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM tags WHERE slug = $1", slug)
	}
}
