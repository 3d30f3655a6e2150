package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/review-catalog/internal/utils"
)

const testSecret = "test-secret-key"

func protectedEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("/v1")
	g.Use(JWTAuth(testSecret))
	g.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"username": c.Get("username"),
			"role":     c.Get("role"),
		})
	})
	return e
}

func TestJWTAuthValidToken(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 7, "alice", "admin", 5)
	assert.NoError(t, err)

	e := protectedEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+access.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	e := protectedEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	e := protectedEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	access, err := utils.NewAccessToken("another-secret", 7, "alice", "admin", 5)
	assert.NoError(t, err)

	e := protectedEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+access.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	g := e.Group("/admin")
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("role", c.Request().Header.Get("X-Test-Role"))
			return next(c)
		}
	})
	g.Use(RequireRole("admin"))
	g.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	cases := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"moderator", http.StatusForbidden},
		{"user", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("X-Test-Role", tc.role)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "role %q", tc.role)
	}
}
