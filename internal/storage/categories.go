package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/google/uuid"
)

// CreateCategory creates a new category. Names are unique.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name, parentID, icon string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	cat := model.Category{
		ID:       uuid.NewString(),
		Name:     name,
		ParentID: parentID,
		Icon:     icon,
	}
	created := nowTimestamp()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, parent_id, icon, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, nullString(parentID), nullString(icon), created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	if cat.CreatedAt, err = parseTimestamp(created); err != nil {
		return nil, err
	}

	slog.Debug("created category", "id", cat.ID, "name", cat.Name)
	return &cat, nil
}

// GetCategories returns all categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategories(ctx, s.db)
}

func getCategories(ctx context.Context, q queryer) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, parent_id, icon, created_at
		FROM categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := []model.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns a category by its ID.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, parent_id, icon, created_at
		FROM categories WHERE id = ?`, id)
	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	return cat, err
}

// GetCategoryByName returns a category by its name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, parent_id, icon, created_at
		FROM categories WHERE name = ?`, name)
	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, name)
	}
	return cat, err
}

func scanCategory(row scanner) (*model.Category, error) {
	var (
		cat      model.Category
		parentID sql.NullString
		icon     sql.NullString
		created  string
	)
	if err := row.Scan(&cat.ID, &cat.Name, &parentID, &icon, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	cat.ParentID = parentID.String
	cat.Icon = icon.String

	var err error
	if cat.CreatedAt, err = parseTimestamp(created); err != nil {
		return nil, err
	}
	return &cat, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
