package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// newTestContext builds an echo context around a JSON request body, for
// exercising handler validation without a router or database.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// newMockDB backs repositories with a sqlmock connection, for asserting
// exactly which statements a handler runs.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPaginateDefaults(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/v1/titles", "")
	limit, offset := paginate(c)
	assert.Equal(t, defaultPageLimit, limit)
	assert.Equal(t, 0, offset)
}

func TestPaginateExplicit(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/v1/titles?limit=25&offset=50", "")
	limit, offset := paginate(c)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)
}

func TestPaginateClampsAndIgnoresJunk(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/v1/titles?limit=5000&offset=-3", "")
	limit, offset := paginate(c)
	assert.Equal(t, maxPageLimit, limit)
	assert.Equal(t, 0, offset)

	c, _ = newTestContext(http.MethodGet, "/v1/titles?limit=abc&offset=xyz", "")
	limit, offset = paginate(c)
	assert.Equal(t, defaultPageLimit, limit)
	assert.Equal(t, 0, offset)
}

func TestSlugPattern(t *testing.T) {
	for _, ok := range []string{"books", "sci-fi", "top_10", "A-1_b"} {
		assert.True(t, slugRe.MatchString(ok), ok)
	}
	for _, bad := range []string{"", "sci fi", "книги", "a/b", "café"} {
		assert.False(t, slugRe.MatchString(bad), bad)
	}
}

func TestGetActorAnonymous(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/v1/titles", "")
	assert.True(t, getActor(c).Anonymous())
}

func TestGetActorFromClaims(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/v1/titles", "")
	c.Set("user_id", float64(12)) // JWT numbers arrive as float64
	c.Set("role", "moderator")

	actor := getActor(c)
	assert.Equal(t, uint64(12), actor.ID)
	assert.True(t, actor.IsModerator())
}
