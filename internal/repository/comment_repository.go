package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/review-catalog/internal/model"
)

// CommentRepo encapsulates database queries against the comments table.
type CommentRepo struct {
	db *sql.DB
}

// NewCommentRepo constructs a CommentRepo with the provided DB handle.
func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

const commentSelect = `SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.author_id`

// Create inserts a comment and populates ID, CreatedAt and the author
// username.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	const q = "INSERT INTO comments (review_id, author_id, text) VALUES (?,?,?)"
	res, err := r.db.ExecContext(ctx, q, cm.ReviewID, cm.AuthorID, cm.Text)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = uint64(id)

	const qSelect = `SELECT c.created_at, u.username
		FROM comments c JOIN users u ON u.id = c.author_id WHERE c.id = ?`
	return r.db.QueryRowContext(ctx, qSelect, cm.ID).Scan(&cm.CreatedAt, &cm.Author)
}

// GetByID fetches a comment scoped to its review.
func (r *CommentRepo) GetByID(ctx context.Context, reviewID, id uint64) (*model.Comment, error) {
	q := commentSelect + " WHERE c.id = ? AND c.review_id = ?"
	var cm model.Comment
	err := r.db.QueryRowContext(ctx, q, id, reviewID).Scan(
		&cm.ID, &cm.ReviewID, &cm.AuthorID, &cm.Author, &cm.Text, &cm.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &cm, nil
}

// ListByReview returns the review's comments newest-first with the total
// count for pagination.
func (r *CommentRepo) ListByReview(ctx context.Context, reviewID uint64, limit, offset int) ([]*model.Comment, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comments WHERE review_id = ?", reviewID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := commentSelect + " WHERE c.review_id = ? ORDER BY c.created_at DESC, c.id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, reviewID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Comment
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.ReviewID, &cm.AuthorID, &cm.Author,
			&cm.Text, &cm.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &cm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update overwrites the comment text.
func (r *CommentRepo) Update(ctx context.Context, cm *model.Comment) error {
	_, err := r.db.ExecContext(ctx, "UPDATE comments SET text = ? WHERE id = ?", cm.Text, cm.ID)
	return err
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCommentNotFound
	}
	return nil
}
