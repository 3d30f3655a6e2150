package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/review-catalog/internal/model"
)

// CategoryRepo encapsulates database queries against the categories table.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo constructs a CategoryRepo with the provided DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns categories whose name contains the search fragment,
// alongside the total match count. An empty fragment matches all.
func (r *CategoryRepo) List(ctx context.Context, search string, limit, offset int) ([]*model.Category, int64, error) {
	cond := "1=1"
	args := []any{}
	if search != "" {
		cond = "name LIKE ?"
		args = append(args, "%"+search+"%")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT id, name, slug FROM categories WHERE " + cond + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetBySlug fetches a category by its slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, slug FROM categories WHERE slug = ?", slug).
		Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a category. The unique index on slug guards against
// duplicate slugs created concurrently; violations map to ErrSlugExists.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (name, slug) VALUES (?,?)", c.Name, c.Slug)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// DeleteBySlug removes a category. Titles keep their rows: the foreign key
// is deliberately non-cascading, so deleting a category that titles still
// reference fails with ErrConflict.
func (r *CategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE slug = ?", slug)
	if err != nil {
		if isRestricted(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
