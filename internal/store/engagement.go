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

// EngagementStore maintains likes, comments, and views together with the
// denormalized counters on the publication row. Every mutation updates
// the join table and the counter in the same transaction, and counters
// move by atomic relative updates so concurrent engagement on a popular
// publication never loses increments.
type EngagementStore struct {
	db *sql.DB
}

// NewEngagementStore returns a new EngagementStore.
func NewEngagementStore(db *sql.DB) *EngagementStore {
	return &EngagementStore{db: db}
}

// AddLike records a like and returns the resulting likes count. A
// duplicate like from the same user is a no-op: the count is returned
// unchanged, with no error.
func (s *EngagementStore) AddLike(publicationID, userID uuid.UUID) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO publication_likes (publication_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT publication_likes_pair_key DO NOTHING
	`, publicationID, userID)
	if err != nil {
		return 0, fmt.Errorf("insert like: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert like rows: %w", err)
	}

	var count int64
	if inserted > 0 {
		err = tx.QueryRow(`
			UPDATE publications SET likes_count = likes_count + 1
			WHERE id = $1
			RETURNING likes_count
		`, publicationID).Scan(&count)
	} else {
		err = tx.QueryRow(`SELECT likes_count FROM publications WHERE id = $1`, publicationID).Scan(&count)
	}
	if err == sql.ErrNoRows {
		return 0, sql.ErrNoRows
	}
	if err != nil {
		return 0, fmt.Errorf("update likes count: %w", err)
	}

	return count, tx.Commit()
}

// RemoveLike removes a user's like and returns the resulting likes
// count, floored at zero. Removing a like that does not exist is a no-op.
func (s *EngagementStore) RemoveLike(publicationID, userID uuid.UUID) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		DELETE FROM publication_likes WHERE publication_id = $1 AND user_id = $2
	`, publicationID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete like: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete like rows: %w", err)
	}

	var count int64
	if deleted > 0 {
		err = tx.QueryRow(`
			UPDATE publications SET likes_count = GREATEST(likes_count - 1, 0)
			WHERE id = $1
			RETURNING likes_count
		`, publicationID).Scan(&count)
	} else {
		err = tx.QueryRow(`SELECT likes_count FROM publications WHERE id = $1`, publicationID).Scan(&count)
	}
	if err == sql.ErrNoRows {
		return 0, sql.ErrNoRows
	}
	if err != nil {
		return 0, fmt.Errorf("update likes count: %w", err)
	}

	return count, tx.Commit()
}

// AddComment stores a comment and increments the comments counter in the
// same transaction. Returns the comment and the resulting count.
func (s *EngagementStore) AddComment(publicationID, authorID uuid.UUID, content string) (*models.Comment, int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var c models.Comment
	err = tx.QueryRow(`
		INSERT INTO publication_comments (publication_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, publication_id, author_id, content, created_at
	`, publicationID, authorID, content).Scan(
		&c.ID, &c.PublicationID, &c.AuthorID, &c.Content, &c.CreatedAt,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("insert comment: %w", err)
	}

	var count int64
	err = tx.QueryRow(`
		UPDATE publications SET comments_count = comments_count + 1
		WHERE id = $1
		RETURNING comments_count
	`, publicationID).Scan(&count)
	if err != nil {
		return nil, 0, fmt.Errorf("update comments count: %w", err)
	}

	return &c, count, tx.Commit()
}

// RemoveComment deletes a comment and decrements the counter, floored at
// zero. Returns false when the comment does not exist.
func (s *EngagementStore) RemoveComment(commentID uuid.UUID) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var publicationID uuid.UUID
	err = tx.QueryRow(`
		DELETE FROM publication_comments WHERE id = $1
		RETURNING publication_id
	`, commentID).Scan(&publicationID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE publications SET comments_count = GREATEST(comments_count - 1, 0)
		WHERE id = $1
	`, publicationID)
	if err != nil {
		return false, fmt.Errorf("update comments count: %w", err)
	}

	return true, tx.Commit()
}

// Comments returns a publication's comments, oldest first.
func (s *EngagementStore) Comments(publicationID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT id, publication_id, author_id, content, created_at
		FROM publication_comments
		WHERE publication_id = $1
		ORDER BY created_at
	`, publicationID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PublicationID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// RecordView bumps the view counters: every hit increments views, and a
// viewer (user id or opaque token) seen for the first time on this
// publication also increments unique hits. First-seen detection rides on
// the partial unique indexes, so two racing first views insert exactly
// one register row and bump unique hits once. Exactly one of userID and
// viewerToken should be set; userID wins when both are.
func (s *EngagementStore) RecordView(publicationID uuid.UUID, userID *uuid.UUID, viewerToken *string) (views, uniqueHits int64, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// No identity at all: count the view, never the unique hit.
	uniqueBump := 0
	var res sql.Result
	switch {
	case userID != nil:
		res, err = tx.Exec(`
			INSERT INTO publication_views (publication_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (publication_id, user_id) WHERE user_id IS NOT NULL DO NOTHING
		`, publicationID, *userID)
	case viewerToken != nil:
		res, err = tx.Exec(`
			INSERT INTO publication_views (publication_id, viewer_token)
			VALUES ($1, $2)
			ON CONFLICT (publication_id, viewer_token) WHERE viewer_token IS NOT NULL DO NOTHING
		`, publicationID, *viewerToken)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("insert view: %w", err)
	}
	if res != nil {
		inserted, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("insert view rows: %w", err)
		}
		if inserted > 0 {
			uniqueBump = 1
		}
	}
	err = tx.QueryRow(`
		UPDATE publications SET views = views + 1, unique_hits = unique_hits + $2
		WHERE id = $1
		RETURNING views, unique_hits
	`, publicationID, uniqueBump).Scan(&views, &uniqueHits)
	if err == sql.ErrNoRows {
		return 0, 0, sql.ErrNoRows
	}
	if err != nil {
		return 0, 0, fmt.Errorf("update view counters: %w", err)
	}

	return views, uniqueHits, tx.Commit()
}

// LikeExists reports whether the user currently likes the publication.
func (s *EngagementStore) LikeExists(publicationID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM publication_likes WHERE publication_id = $1 AND user_id = $2)
	`, publicationID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return exists, nil
}
