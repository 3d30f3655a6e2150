package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/review-catalog/internal/model"
)

// GenreRepo encapsulates database queries against the genres table and the
// genre_titles linking table.
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo constructs a GenreRepo with the provided DB handle.
func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{db: db} }

// List returns genres whose name contains the search fragment, alongside
// the total match count.
func (r *GenreRepo) List(ctx context.Context, search string, limit, offset int) ([]*model.Genre, int64, error) {
	cond := "1=1"
	args := []any{}
	if search != "" {
		cond = "name LIKE ?"
		args = append(args, "%"+search+"%")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM genres WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT id, name, slug FROM genres WHERE " + cond + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, 0, err
		}
		out = append(out, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetBySlug fetches a genre by its slug.
func (r *GenreRepo) GetBySlug(ctx context.Context, slug string) (*model.Genre, error) {
	var g model.Genre
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, slug FROM genres WHERE slug = ?", slug).
		Scan(&g.ID, &g.Name, &g.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return &g, nil
}

// GetBySlugs resolves a list of slugs to genres, preserving input order.
// Any unknown slug yields ErrGenreNotFound so title writes can reject the
// whole payload.
func (r *GenreRepo) GetBySlugs(ctx context.Context, slugs []string) ([]model.Genre, error) {
	out := make([]model.Genre, 0, len(slugs))
	for _, slug := range slugs {
		g, err := r.GetBySlug(ctx, strings.TrimSpace(slug))
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, nil
}

// Create inserts a genre; duplicate slugs map to ErrSlugExists.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO genres (name, slug) VALUES (?,?)", g.Name, g.Slug)
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
	g.ID = uint64(id)
	return nil
}

// DeleteBySlug removes a genre. Links in genre_titles cascade away;
// titles themselves are untouched.
func (r *GenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM genres WHERE slug = ?", slug)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGenreNotFound
	}
	return nil
}
