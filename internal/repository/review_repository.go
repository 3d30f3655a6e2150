package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/review-catalog/internal/model"
)

// ReviewRepo encapsulates database queries against the reviews table.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo constructs a ReviewRepo with the provided DB handle.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewSelect = `SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.author_id`

// ExistsByTitleAndAuthor reports whether the author already reviewed the
// title. Create checks this first so a duplicate reads as a validation
// failure instead of a bare constraint violation.
func (r *ReviewRepo) ExistsByTitleAndAuthor(ctx context.Context, titleID, authorID uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM reviews WHERE title_id = ? AND author_id = ?)",
		titleID, authorID).Scan(&exists)
	return exists, err
}

// Create inserts a review and populates ID, CreatedAt and the author
// username. The unique (title_id, author_id) index still backstops the
// pre-insert existence check against concurrent submissions.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	const q = "INSERT INTO reviews (title_id, author_id, text, score) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, rev.TitleID, rev.AuthorID, rev.Text, rev.Score)
	if err != nil {
		if isDuplicate(err) {
			return ErrReviewExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)

	const qSelect = `SELECT r.created_at, u.username
		FROM reviews r JOIN users u ON u.id = r.author_id WHERE r.id = ?`
	return r.db.QueryRowContext(ctx, qSelect, rev.ID).Scan(&rev.CreatedAt, &rev.Author)
}

// GetByID fetches a review scoped to a title, so a review ID from another
// title's path resolves to not-found.
func (r *ReviewRepo) GetByID(ctx context.Context, titleID, id uint64) (*model.Review, error) {
	q := reviewSelect + " WHERE r.id = ? AND r.title_id = ?"
	var rev model.Review
	err := r.db.QueryRowContext(ctx, q, id, titleID).Scan(
		&rev.ID, &rev.TitleID, &rev.AuthorID, &rev.Author, &rev.Text, &rev.Score, &rev.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// ListByTitle returns the title's reviews newest-first with the total
// count for pagination.
func (r *ReviewRepo) ListByTitle(ctx context.Context, titleID uint64, limit, offset int) ([]*model.Review, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE title_id = ?", titleID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := reviewSelect + " WHERE r.title_id = ? ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, titleID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Review
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.TitleID, &rev.AuthorID, &rev.Author,
			&rev.Text, &rev.Score, &rev.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &rev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update overwrites text and score. The creation timestamp is immutable
// and the author never changes.
func (r *ReviewRepo) Update(ctx context.Context, rev *model.Review) error {
	const q = "UPDATE reviews SET text = ?, score = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, q, rev.Text, rev.Score, rev.ID)
	return err
}

// Delete removes a review; its comments cascade away.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
