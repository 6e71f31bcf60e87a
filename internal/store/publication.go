// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"mediapress/internal/models"
)

// PublicationStore handles all publication-related database operations,
// including the attachment-order and tag join tables. Writes that touch
// a publication together with its joins run in one transaction.
type PublicationStore struct {
	db *sql.DB
}

// NewPublicationStore creates a new PublicationStore with the given
// database connection.
func NewPublicationStore(db *sql.DB) *PublicationStore {
	return &PublicationStore{db: db}
}

const publicationColumns = `id, title, slug, description, meta_title, meta_description,
	cover_image, category_id, creator_id, approved_by, status, rejection_reason,
	publication_date, has_comments, is_featured, is_leaderboard,
	views, unique_hits, likes_count, comments_count, created_at, updated_at`

// scanPublication scans a row into a Publication struct.
func scanPublication(scanner interface{ Scan(...any) error }) (*models.Publication, error) {
	var p models.Publication
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.MetaTitle, &p.MetaDescription,
		&p.CoverImage, &p.CategoryID, &p.CreatorID, &p.ApprovedBy, &p.Status,
		&p.RejectionReason, &p.PublicationDate, &p.HasComments, &p.IsFeatured,
		&p.IsLeaderboard, &p.Views, &p.UniqueHits, &p.LikesCount, &p.CommentsCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID retrieves a publication by its UUID. Returns nil if not found.
func (s *PublicationStore) FindByID(id uuid.UUID) (*models.Publication, error) {
	row := s.db.QueryRow(`SELECT `+publicationColumns+` FROM publications WHERE id = $1`, id)
	p, err := scanPublication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find publication by id: %w", err)
	}
	return p, nil
}

// FindApprovedBySlug retrieves an approved publication by its slug. Used
// for public consumption; drafts and pending items are never served here.
func (s *PublicationStore) FindApprovedBySlug(slug string) (*models.Publication, error) {
	row := s.db.QueryRow(`
		SELECT `+publicationColumns+`
		FROM publications WHERE slug = $1 AND status = 'approved'
	`, slug)
	p, err := scanPublication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find publication by slug: %w", err)
	}
	return p, nil
}

// ListByStatus returns publications in the given moderation state,
// newest first.
func (s *PublicationStore) ListByStatus(status models.PublicationStatus) ([]models.Publication, error) {
	return s.list(`
		SELECT `+publicationColumns+`
		FROM publications WHERE status = $1
		ORDER BY created_at DESC
	`, status)
}

// ListByCategory returns publications referencing the given category,
// newest first.
func (s *PublicationStore) ListByCategory(categoryID uuid.UUID) ([]models.Publication, error) {
	return s.list(`
		SELECT `+publicationColumns+`
		FROM publications WHERE category_id = $1
		ORDER BY created_at DESC
	`, categoryID)
}

func (s *PublicationStore) list(query string, args ...any) ([]models.Publication, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	var items []models.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// SlugExists reports whether another publication already uses the slug.
// excludeID skips the publication being updated; pass uuid.Nil on create.
func (s *PublicationStore) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM publications WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check publication slug: %w", err)
	}
	return exists, nil
}

// Create inserts a publication together with its ordered attachment rows
// and tag rows in a single transaction, and returns the stored record.
func (s *PublicationStore) Create(p *models.Publication, fileIDs, tagIDs []uuid.UUID) (*models.Publication, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO publications (title, slug, description, meta_title, meta_description,
			cover_image, category_id, creator_id, status, publication_date,
			has_comments, is_featured, is_leaderboard)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+publicationColumns,
		p.Title, p.Slug, p.Description, p.MetaTitle, p.MetaDescription,
		p.CoverImage, p.CategoryID, p.CreatorID, p.Status, p.PublicationDate,
		p.HasComments, p.IsFeatured, p.IsLeaderboard,
	)
	result, err := scanPublication(row)
	if err != nil {
		return nil, fmt.Errorf("create publication: %w", err)
	}

	if err := insertAttachments(tx, result.ID, fileIDs); err != nil {
		return nil, err
	}
	if err := insertTags(tx, result.ID, tagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create publication: %w", err)
	}
	return result, nil
}

// Update rewrites a publication's own fields and, when the corresponding
// flag is set, wholesale-replaces its attachment and tag join sets, all
// in one transaction. Join replacement is delete-then-reinsert; the order
// of fileIDs becomes the stored attachment order.
func (s *PublicationStore) Update(p *models.Publication, fileIDs []uuid.UUID, replaceAttachments bool, tagIDs []uuid.UUID, replaceTags bool) (*models.Publication, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		UPDATE publications SET
			title = $1, slug = $2, description = $3, meta_title = $4,
			meta_description = $5, cover_image = $6, category_id = $7,
			approved_by = $8, status = $9, rejection_reason = $10,
			publication_date = $11, has_comments = $12, is_featured = $13,
			is_leaderboard = $14, updated_at = NOW()
		WHERE id = $15
		RETURNING `+publicationColumns,
		p.Title, p.Slug, p.Description, p.MetaTitle,
		p.MetaDescription, p.CoverImage, p.CategoryID,
		p.ApprovedBy, p.Status, p.RejectionReason,
		p.PublicationDate, p.HasComments, p.IsFeatured,
		p.IsLeaderboard, p.ID,
	)
	result, err := scanPublication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update publication: %w", err)
	}

	if replaceAttachments {
		if _, err := tx.Exec(`DELETE FROM publication_attachments WHERE publication_id = $1`, p.ID); err != nil {
			return nil, fmt.Errorf("clear attachments: %w", err)
		}
		if err := insertAttachments(tx, p.ID, fileIDs); err != nil {
			return nil, err
		}
	}
	if replaceTags {
		if _, err := tx.Exec(`DELETE FROM publication_tags WHERE publication_id = $1`, p.ID); err != nil {
			return nil, fmt.Errorf("clear tags: %w", err)
		}
		if err := insertTags(tx, p.ID, tagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update publication: %w", err)
	}
	return result, nil
}

// UpdateStatus moves a publication to a new moderation state, recording
// the approver and rejection reason as the transition dictates. Returns
// nil if the publication does not exist.
func (s *PublicationStore) UpdateStatus(id uuid.UUID, status models.PublicationStatus, approvedBy *uuid.UUID, rejectionReason *string) (*models.Publication, error) {
	row := s.db.QueryRow(`
		UPDATE publications SET
			status = $1, approved_by = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+publicationColumns,
		status, approvedBy, rejectionReason, id,
	)
	p, err := scanPublication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update publication status: %w", err)
	}
	return p, nil
}

// Delete removes a publication. Its join rows (attachments, tags, likes,
// comments, views) cascade at the schema level; the files the attachments
// referenced are left untouched. Returns false if nothing was deleted.
func (s *PublicationStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete publication: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete publication rows: %w", err)
	}
	return n > 0, nil
}

// Attachments returns the publication's attachment rows in stored order,
// joined with each file's MIME type and path.
func (s *PublicationStore) Attachments(publicationID uuid.UUID) ([]models.Attachment, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.publication_id, a.file_id, a.position, a.created_at,
		       f.mime_type, f.file_path
		FROM publication_attachments a
		JOIN files f ON f.id = a.file_id
		WHERE a.publication_id = $1
		ORDER BY a.position
	`, publicationID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var items []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(
			&a.ID, &a.PublicationID, &a.FileID, &a.Position, &a.CreatedAt,
			&a.MimeType, &a.FilePath,
		); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// Tags returns the publication's tags ordered by display name.
func (s *PublicationStore) Tags(publicationID uuid.UUID) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at
		FROM publication_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.publication_id = $1
		ORDER BY t.name
	`, publicationID)
	if err != nil {
		return nil, fmt.Errorf("list publication tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// insertAttachments writes one join row per file id, position following
// the slice order as submitted by the caller.
func insertAttachments(tx *sql.Tx, publicationID uuid.UUID, fileIDs []uuid.UUID) error {
	for i, fileID := range fileIDs {
		_, err := tx.Exec(`
			INSERT INTO publication_attachments (publication_id, file_id, position)
			VALUES ($1, $2, $3)
		`, publicationID, fileID, i)
		if err != nil {
			return fmt.Errorf("insert attachment %d: %w", i, err)
		}
	}
	return nil
}

func insertTags(tx *sql.Tx, publicationID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		_, err := tx.Exec(`
			INSERT INTO publication_tags (publication_id, tag_id)
			VALUES ($1, $2)
		`, publicationID, tagID)
		if err != nil {
			return fmt.Errorf("insert publication tag: %w", err)
		}
	}
	return nil
}
