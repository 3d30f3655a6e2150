package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/review-catalog/internal/cache"
	"github.com/iliyamo/review-catalog/internal/model"
)

// TitleRepo encapsulates database queries against the titles table and its
// category/genre relations. Ratings are never stored; reads derive them
// from the reviews table, short-circuited by the rating cache when one is
// configured.
type TitleRepo struct {
	db      *sql.DB
	ratings *cache.RatingCache
}

// NewTitleRepo constructs a TitleRepo. The rating cache may be nil.
func NewTitleRepo(db *sql.DB, ratings *cache.RatingCache) *TitleRepo {
	return &TitleRepo{db: db, ratings: ratings}
}

// ratingFromAvg converts an AVG(score) aggregate into the API rating:
// the mean truncated toward zero, or nil when the title has no reviews.
func ratingFromAvg(avg sql.NullFloat64) *int {
	if !avg.Valid {
		return nil
	}
	n := int(avg.Float64)
	return &n
}

// Rating computes the derived rating for a title, consulting the cache
// first and repopulating it on a miss.
func (r *TitleRepo) Rating(ctx context.Context, titleID uint64) (*int, error) {
	if v, ok := r.ratings.Get(ctx, titleID); ok {
		return v, nil
	}
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT AVG(score) FROM reviews WHERE title_id = ?", titleID).Scan(&avg)
	if err != nil {
		return nil, err
	}
	rating := ratingFromAvg(avg)
	r.ratings.Set(ctx, titleID, rating)
	return rating, nil
}

// Create inserts a title and its genre links. The category and genres
// must already be resolved from slugs by the caller.
func (r *TitleRepo) Create(ctx context.Context, t *model.Title) error {
	const q = "INSERT INTO titles (name, year, description, category_id) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Year, t.Description, t.Category.ID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return r.replaceGenres(ctx, t.ID, t.Genres)
}

// Update overwrites the title fields and replaces its genre links.
func (r *TitleRepo) Update(ctx context.Context, t *model.Title) error {
	const q = "UPDATE titles SET name = ?, year = ?, description = ?, category_id = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, q, t.Name, t.Year, t.Description, t.Category.ID, t.ID); err != nil {
		return err
	}
	return r.replaceGenres(ctx, t.ID, t.Genres)
}

// replaceGenres rewrites the genre_titles links for a title.
func (r *TitleRepo) replaceGenres(ctx context.Context, titleID uint64, genres []model.Genre) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM genre_titles WHERE title_id = ?", titleID); err != nil {
		return err
	}
	for _, g := range genres {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO genre_titles (genre_id, title_id) VALUES (?,?)", g.ID, titleID)
		if err != nil && !isDuplicate(err) {
			return err
		}
	}
	return nil
}

// GetByID fetches a title with its category, genres and derived rating.
func (r *TitleRepo) GetByID(ctx context.Context, id uint64) (*model.Title, error) {
	const q = `SELECT t.id, t.name, t.year, t.description, c.id, c.name, c.slug
	           FROM titles t
	           JOIN categories c ON c.id = t.category_id
	           WHERE t.id = ?`
	var t model.Title
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Name, &t.Year, &t.Description,
		&t.Category.ID, &t.Category.Name, &t.Category.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	if t.Rating, err = r.Rating(ctx, t.ID); err != nil {
		return nil, err
	}
	if err := r.loadGenres(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Exists reports whether a title row is present. Review and comment
// handlers use it to guard the nested path before touching children.
func (r *TitleRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM titles WHERE id = ?)", id).Scan(&exists)
	return exists, err
}

// Delete removes a title; reviews, comments and genre links cascade away.
func (r *TitleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM titles WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTitleNotFound
	}
	return nil
}

// loadGenres fills the Genres slice of a title from the linking table.
func (r *TitleRepo) loadGenres(ctx context.Context, t *model.Title) error {
	const q = `SELECT g.id, g.name, g.slug
	           FROM genres g
	           JOIN genre_titles gt ON gt.genre_id = g.id
	           WHERE gt.title_id = ?
	           ORDER BY g.id`
	rows, err := r.db.QueryContext(ctx, q, t.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	t.Genres = []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return err
		}
		t.Genres = append(t.Genres, g)
	}
	return rows.Err()
}
