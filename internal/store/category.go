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

// CategoryStore manages categories and their subcategory associations.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, cover_image, show_on_menu, menu_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverImage,
		&c.ShowOnMenu, &c.MenuOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by menu order, with publication counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.cover_image,
		       c.show_on_menu, c.menu_order, c.created_at, c.updated_at,
		       COUNT(p.id) AS publication_count
		FROM categories c
		LEFT JOIN publications p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.menu_order, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverImage,
			&c.ShowOnMenu, &c.MenuOrder, &c.CreatedAt, &c.UpdatedAt,
			&c.PublicationCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, cover_image, show_on_menu, menu_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.CoverImage, c.ShowOnMenu, c.MenuOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, cover_image = $4,
			show_on_menu = $5, menu_order = $6, updated_at = NOW()
		WHERE id = $7
	`, c.Name, c.Slug, c.Description, c.CoverImage, c.ShowOnMenu, c.MenuOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. The caller is expected to have run the
// reference guard first; a foreign-key failure here still surfaces as an
// error for the service layer to translate. Returns false when no row
// was deleted.
func (s *CategoryStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category rows: %w", err)
	}
	return n > 0, nil
}

// CountPublications returns how many publications reference the category.
func (s *CategoryStore) CountPublications(id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM publications WHERE category_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count category publications: %w", err)
	}
	return count, nil
}

// Subcategories returns the subcategories associated with a category.
func (s *CategoryStore) Subcategories(categoryID uuid.UUID) ([]models.Subcategory, error) {
	rows, err := s.db.Query(`
		SELECT sc.id, sc.name, sc.slug, sc.created_at
		FROM category_subcategories cs
		JOIN subcategories sc ON sc.id = cs.subcategory_id
		WHERE cs.category_id = $1
		ORDER BY sc.name
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.Subcategory
	for rows.Next() {
		var sc models.Subcategory
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Slug, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}

// CreateSubcategory inserts a subcategory and returns it.
func (s *CategoryStore) CreateSubcategory(name, slug string) (*models.Subcategory, error) {
	var sc models.Subcategory
	err := s.db.QueryRow(`
		INSERT INTO subcategories (name, slug)
		VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`, name, slug).Scan(&sc.ID, &sc.Name, &sc.Slug, &sc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return &sc, nil
}

// FindSubcategoryBySlug retrieves a subcategory by slug. Returns nil if
// not found.
func (s *CategoryStore) FindSubcategoryBySlug(slug string) (*models.Subcategory, error) {
	var sc models.Subcategory
	err := s.db.QueryRow(`
		SELECT id, name, slug, created_at FROM subcategories WHERE slug = $1
	`, slug).Scan(&sc.ID, &sc.Name, &sc.Slug, &sc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by slug: %w", err)
	}
	return &sc, nil
}

// AssignSubcategory links a subcategory to a category. Repeated
// assignment is a no-op.
func (s *CategoryStore) AssignSubcategory(categoryID, subcategoryID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO category_subcategories (category_id, subcategory_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT category_subcategories_pair_key DO NOTHING
	`, categoryID, subcategoryID)
	if err != nil {
		return fmt.Errorf("assign subcategory: %w", err)
	}
	return nil
}
