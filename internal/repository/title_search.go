package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/review-catalog/internal/model"
)

// TitleFilter defines the optional filters and pagination for listing
// titles. Name matches as a substring; category and genre match their
// slugs exactly; Year matches exactly when non-nil.
type TitleFilter struct {
	Name     string
	Category string
	Genre    string
	Year     *int
	Limit    int
	Offset   int
}

// buildTitleConditions turns a TitleFilter into a WHERE clause and its
// arguments. Split out so the SQL assembly can be tested without a DB.
func buildTitleConditions(f TitleFilter) (string, []any) {
	where := []string{}
	args := []any{}

	if f.Name != "" {
		where = append(where, "t.name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if f.Category != "" {
		where = append(where, "c.slug = ?")
		args = append(args, f.Category)
	}
	if f.Genre != "" {
		where = append(where, `t.id IN (
			SELECT gt.title_id FROM genre_titles gt
			JOIN genres g ON g.id = gt.genre_id
			WHERE g.slug = ?)`)
		args = append(args, f.Genre)
	}
	if f.Year != nil {
		where = append(where, "t.year = ?")
		args = append(args, *f.Year)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// List returns titles matching the filter, fully populated with category,
// genres and derived rating, plus the total match count for pagination.
func (r *TitleRepo) List(ctx context.Context, f TitleFilter) ([]*model.Title, int64, error) {
	cond, args := buildTitleConditions(f)

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM titles t
		JOIN categories c ON c.id = t.category_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := `SELECT
			t.id, t.name, t.year, t.description,
			c.id, c.name, c.slug
		FROM titles t
		JOIN categories c ON c.id = t.category_id
		WHERE ` + cond + `
		ORDER BY t.id
		LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Title
	for rows.Next() {
		var t model.Title
		if err := rows.Scan(&t.ID, &t.Name, &t.Year, &t.Description,
			&t.Category.ID, &t.Category.Name, &t.Category.Slug); err != nil {
			return nil, 0, err
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, t := range out {
		if t.Rating, err = r.Rating(ctx, t.ID); err != nil {
			return nil, 0, err
		}
		if err := r.loadGenres(ctx, t); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}
