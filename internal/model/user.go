package model

import "time"

// Role values stored in users.role. A user starts as RoleUser on signup and
// can only be promoted through the admin user endpoints.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User represents an application user record as stored in the `users`
// table. Usernames and emails are unique. There is no password: accounts
// are passwordless and authenticate by exchanging a confirmation code for
// an access token.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Username  – unique login name.
//  Email     – unique email address.
//  FirstName – optional given name.
//  LastName  – optional family name.
//  Bio       – optional free-form text about the user.
//  Role      – one of user, moderator, admin.
//  IsActive  – whether the account is active.
//  CreatedAt – timestamp of creation.
type User struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// IsModerator reports whether the user carries the moderator role.
func (u *User) IsModerator() bool { return u.Role == RoleModerator }

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ConfirmationCode models an entry in the `confirmation_codes` table. The
// plain code is delivered by email and never stored; only its bcrypt hash.
// A user has at most one live code: issuing a new one replaces the old row.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the code.
//  CodeHash  – bcrypt hash of the code value.
//  ExpiresAt – expiration timestamp of the code.
//  CreatedAt – timestamp of creation.
type ConfirmationCode struct {
	ID        uint64    `json:"-"`
	UserID    uint64    `json:"-"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
	CreatedAt time.Time `json:"-"`
}
