package library

import (
	"context"
	"fmt"
)

func scanCategory(row rowScanner) (*Category, error) {
	c := &Category{}
	var flags int64
	if err := row.Scan(&c.ID, &c.Name, &c.Order, &flags); err != nil {
		return nil, err
	}
	c.Flags = uint64(flags)
	return c, nil
}

// AddCategory inserts a category. Sets ID on the struct.
func (s *Store) AddCategory(ctx context.Context, c *Category) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, sort_order, flags) VALUES (?, ?, ?)`,
		c.Name, c.Order, int64(c.Flags))
	if err != nil {
		return fmt.Errorf("insert category: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	c.ID = id
	return nil
}

// GetCategory retrieves a category by ID.
// Returns ErrNotFound if the category does not exist.
func (s *Store) GetCategory(ctx context.Context, id int64) (*Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT id, name, sort_order, flags FROM categories WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, mapSQLiteError(err))
	}
	return c, nil
}

// ListCategories returns all categories in display order.
func (s *Store) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, sort_order, flags FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return results, nil
}

// UpdateCategoryFlags replaces the packed flags of one category.
// Returns ErrNotFound if the category does not exist.
func (s *Store) UpdateCategoryFlags(ctx context.Context, id int64, flags uint64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE categories SET flags = ? WHERE id = ?`, int64(flags), id)
	if err != nil {
		return fmt.Errorf("update category %d: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update category %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateAllCategoryFlags sets the same flags on every category.
func (s *Store) UpdateAllCategoryFlags(ctx context.Context, flags uint64) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE categories SET flags = ?`, int64(flags)); err != nil {
		return fmt.Errorf("update all categories: %w", mapSQLiteError(err))
	}
	return nil
}

// DeleteCategory removes a category by ID. Idempotent.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, mapSQLiteError(err))
	}
	return nil
}
