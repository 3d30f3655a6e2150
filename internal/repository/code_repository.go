package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/review-catalog/internal/model"
)

// CodeRepo manages confirmation codes in the confirmation_codes table.
// Only the bcrypt hash of a code is stored; the plain value exists once,
// in the signup email.
type CodeRepo struct {
	db *sql.DB
}

// NewCodeRepo constructs a CodeRepo with the provided DB handle.
func NewCodeRepo(db *sql.DB) *CodeRepo { return &CodeRepo{db: db} }

// Replace stores a new code hash for the user, discarding any previous
// one. A user holds at most one live confirmation code.
func (r *CodeRepo) Replace(ctx context.Context, userID uint64, codeHash string, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM confirmation_codes WHERE user_id = ?", userID); err != nil {
		return err
	}
	const q = "INSERT INTO confirmation_codes (user_id, code_hash, expires_at) VALUES (?,?,?)"
	_, err := r.db.ExecContext(ctx, q, userID, codeHash, expiresAt.UTC())
	return err
}

// GetLive returns the unexpired code record for the user, or
// ErrCodeNotFound when none exists.
func (r *CodeRepo) GetLive(ctx context.Context, userID uint64) (*model.ConfirmationCode, error) {
	const q = `SELECT id, user_id, code_hash, expires_at, created_at
	           FROM confirmation_codes
	           WHERE user_id = ? AND expires_at > UTC_TIMESTAMP()
	           ORDER BY id DESC LIMIT 1`
	var c model.ConfirmationCode
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&c.ID, &c.UserID, &c.CodeHash, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Consume deletes the user's codes after a successful token exchange so a
// code cannot be replayed.
func (r *CodeRepo) Consume(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM confirmation_codes WHERE user_id = ?", userID)
	return err
}
