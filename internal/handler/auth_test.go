package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/review-catalog/internal/config"
	"github.com/iliyamo/review-catalog/internal/repository"
)

// The handler validates payloads before touching storage, so these cases
// run with no repositories behind the handler.
func signupHandler() *AuthHandler { return &AuthHandler{} }

func TestSignupRejectsReservedUsername(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/v1/auth/signup",
		`{"username":"me","email":"me@example.com"}`)
	assert.NoError(t, signupHandler().Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "me")
}

func TestSignupRequiresUsernameAndEmail(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"username":"alice"}`,
		`{"email":"alice@example.com"}`,
		`{"username":"  ","email":"alice@example.com"}`,
	} {
		c, rec := newTestContext(http.MethodPost, "/v1/auth/signup", body)
		assert.NoError(t, signupHandler().Signup(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestSignupRejectsBadUsernameCharset(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/v1/auth/signup",
		`{"username":"bad name!","email":"x@example.com"}`)
	assert.NoError(t, signupHandler().Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid username")
}

const duplicateUsernameErr = "Error 1062 (23000): Duplicate entry 'alice' for key 'users.uq_users_username'"

func userRows(email string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "first_name", "last_name", "bio", "role", "is_active", "created_at",
	}).AddRow(7, "alice", email, "", "", "", "user", true, time.Now())
}

func TestSignupReissuesCodeForExistingIdentity(t *testing.T) {
	db, mock := newMockDB(t)
	h := &AuthHandler{
		Cfg:   config.Config{BcryptCost: bcrypt.MinCost, CodeTTLMin: 10, EmailFrom: "noreply@example.com"},
		Users: repository.NewUserRepo(db),
		Codes: repository.NewCodeRepo(db),
	}

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New(duplicateUsernameErr))
	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRows("alice@example.com"))
	// Same username and email: the old code is replaced, not rejected.
	mock.ExpectExec("DELETE FROM confirmation_codes").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO confirmation_codes").
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := newTestContext(http.MethodPost, "/v1/auth/signup",
		`{"username":"alice","email":"alice@example.com"}`)
	assert.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRejectsUsernameTakenByOtherEmail(t *testing.T) {
	db, mock := newMockDB(t)
	h := &AuthHandler{
		Users: repository.NewUserRepo(db),
		Codes: repository.NewCodeRepo(db),
	}

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New(duplicateUsernameErr))
	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRows("someone-else@example.com"))

	c, rec := newTestContext(http.MethodPost, "/v1/auth/signup",
		`{"username":"alice","email":"alice@example.com"}`)
	assert.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRequiresBothFields(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"username":"alice"}`,
		`{"confirmation_code":"abc"}`,
	} {
		c, rec := newTestContext(http.MethodPost, "/v1/auth/token", body)
		assert.NoError(t, signupHandler().Token(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
