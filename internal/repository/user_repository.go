package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/review-catalog/internal/model"
)

// UserRepo encapsulates all database queries against the users table.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id, username, email, first_name, last_name, bio, role, is_active, created_at"

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Bio, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and populates the ID and CreatedAt fields. The
// unique indexes on username and email are the final word on duplicates;
// callers get ErrUsernameExists or ErrEmailExists when one fires.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (username, email, first_name, last_name, bio, role)
	           VALUES (?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(err.Error(), "email") {
				return ErrEmailExists
			}
			return ErrUsernameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	const qSelect = "SELECT is_active, created_at FROM users WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, u.ID).Scan(&u.IsActive, &u.CreatedAt)
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = "SELECT " + userColumns + " FROM users WHERE id = ?"
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = "SELECT " + userColumns + " FROM users WHERE username = ?"
	return scanUser(r.db.QueryRowContext(ctx, q, username))
}

// Search returns users whose username contains the given fragment,
// alongside the total match count for pagination. An empty fragment
// matches everyone. Results are ordered newest-first.
func (r *UserRepo) Search(ctx context.Context, fragment string, limit, offset int) ([]*model.User, int64, error) {
	cond := "1=1"
	args := []any{}
	if fragment != "" {
		cond = "username LIKE ?"
		args = append(args, "%"+fragment+"%")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + userColumns + " FROM users WHERE " + cond +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
			&u.Bio, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update overwrites the mutable profile fields of a user. Role changes
// travel through here as well, but only admin handlers ever set a new
// value; the self-service path drops the field before calling.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	const q = `UPDATE users
	           SET email = ?, first_name = ?, last_name = ?, bio = ?, role = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, u.Email, u.FirstName, u.LastName, u.Bio, u.Role, u.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero affected rows can also mean a no-op update; verify existence.
		var exists bool
		if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", u.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}
	}
	return nil
}

// DeleteByUsername removes a user. Reviews, comments and confirmation
// codes go with it through ON DELETE CASCADE.
func (r *UserRepo) DeleteByUsername(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
