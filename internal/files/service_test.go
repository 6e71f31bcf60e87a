// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Service tests run against a real PostgreSQL and are skipped when the
// database is unreachable. Object storage is left unconfigured, so only
// the metadata path is exercised.
package files

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"mediapress/internal/database"
	"mediapress/internal/models"
	"mediapress/internal/store"
)

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
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testService(t *testing.T, db *sql.DB) *Service {
	t.Helper()
	return NewService(store.NewFileStore(db), store.NewFolderStore(db), nil)
}

// pngBytes is a minimal PNG signature, enough for MIME sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func cleanupFile(t *testing.T, db *sql.DB, id uuid.UUID) {
	t.Helper()
	t.Cleanup(func() { db.Exec("DELETE FROM files WHERE id = $1", id) })
}

func TestUploadSniffsMimeFromBytes(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)

	// The extension lies; the bytes win.
	f, err := s.Upload(context.Background(), UploadInput{
		OriginalName: "actually-a-png.mp4",
		Content:      bytes.NewReader(pngBytes),
		Size:         int64(len(pngBytes)),
		AccessType:   models.AccessPrivate,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	cleanupFile(t, db, f.ID)

	if f.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", f.MimeType)
	}
	if !strings.HasSuffix(f.Filename, ".mp4") {
		t.Errorf("stored filename should keep the original extension, got %q", f.Filename)
	}
	if f.Filename == "actually-a-png.mp4" {
		t.Error("stored filename must not be the client-supplied name")
	}
}

func TestUploadInheritsPublicFromFolder(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)

	folder, err := s.CreateFolder("Press Kit "+uuid.NewString()[:8], nil, nil, models.AccessPublic, true)
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM folders WHERE id = $1", folder.ID) })

	f, err := s.Upload(context.Background(), UploadInput{
		OriginalName: "logo.png",
		Content:      bytes.NewReader(pngBytes),
		Size:         int64(len(pngBytes)),
		FolderID:     &folder.ID,
		AccessType:   models.AccessPrivate, // overridden by the folder
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	cleanupFile(t, db, f.ID)

	if f.AccessType != models.AccessPublic {
		t.Errorf("AccessType = %q, want public via folder inheritance", f.AccessType)
	}
}

func TestUploadValidation(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)
	ctx := context.Background()

	cases := []struct {
		name string
		in   UploadInput
	}{
		{"blank name", UploadInput{OriginalName: "  ", Content: bytes.NewReader(pngBytes), Size: 1}},
		{"empty file", UploadInput{OriginalName: "a.png", Content: bytes.NewReader(nil), Size: 0}},
		{"bad access type", UploadInput{OriginalName: "a.png", Content: bytes.NewReader(pngBytes), Size: 1, AccessType: "internal"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Upload(ctx, tc.in); err == nil {
				t.Error("expected a validation error")
			}
		})
	}

	// Unknown folder id.
	missing := uuid.New()
	_, err := s.Upload(ctx, UploadInput{
		OriginalName: "a.png",
		Content:      bytes.NewReader(pngBytes),
		Size:         int64(len(pngBytes)),
		FolderID:     &missing,
	})
	if err == nil {
		t.Error("upload into a missing folder should fail")
	}
}

func TestDeleteBlockedWhileAttached(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)
	ctx := context.Background()

	f, err := s.Upload(ctx, UploadInput{
		OriginalName: "clip.png",
		Content:      bytes.NewReader(pngBytes),
		Size:         int64(len(pngBytes)),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	cleanupFile(t, db, f.ID)

	var userID uuid.UUID
	if err := db.QueryRow(`
		INSERT INTO users (email, display_name) VALUES ($1, 'Uploader') RETURNING id
	`, uuid.NewString()[:8]+"@example.com").Scan(&userID); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", userID) })

	suffix := uuid.NewString()[:8]
	var catID uuid.UUID
	if err := db.QueryRow(`
		INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id
	`, "Clips "+suffix, "clips-"+suffix).Scan(&catID); err != nil {
		t.Fatalf("insert category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", catID) })

	var pubID uuid.UUID
	if err := db.QueryRow(`
		INSERT INTO publications (title, slug, category_id, creator_id)
		VALUES ('Clip Holder', $1, $2, $3) RETURNING id
	`, "clip-holder-"+suffix, catID, userID).Scan(&pubID); err != nil {
		t.Fatalf("insert publication: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM publications WHERE id = $1", pubID) })

	if _, err := db.Exec(`
		INSERT INTO publication_attachments (publication_id, file_id, position)
		VALUES ($1, $2, 0)
	`, pubID, f.ID); err != nil {
		t.Fatalf("attach file: %v", err)
	}

	if err := s.Delete(ctx, f.ID); err == nil {
		t.Fatal("deleting an attached file should fail")
	}

	// Detach, then deletion goes through.
	if _, err := db.Exec("DELETE FROM publication_attachments WHERE file_id = $1", f.ID); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if err := s.Delete(ctx, f.ID); err != nil {
		t.Fatalf("Delete after detach: %v", err)
	}
}

func TestDeleteFolderKeepsContents(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)

	folder, err := s.CreateFolder("Doomed "+uuid.NewString()[:8], nil, nil, models.AccessPrivate, false)
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM folders WHERE id = $1", folder.ID) })

	f, err := s.Upload(context.Background(), UploadInput{
		OriginalName: "survivor.png",
		Content:      bytes.NewReader(pngBytes),
		Size:         int64(len(pngBytes)),
		FolderID:     &folder.ID,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	cleanupFile(t, db, f.ID)

	if err := s.DeleteFolder(folder.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	got, err := s.Get(f.ID)
	if err != nil {
		t.Fatalf("file should survive folder deletion: %v", err)
	}
	if got.FolderID != nil {
		t.Errorf("file should re-parent to the root, got folder %v", *got.FolderID)
	}
}
