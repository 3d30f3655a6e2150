package handler // handler implements the HTTP endpoints of the review catalog API

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/permission"
)

// Pagination defaults for all list endpoints, limit/offset style.
const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// slugRe is the charset every category and genre slug must match.
var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// dbTimeout bounds every database round trip made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the user_id placed in context by the JWT middleware
// and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64: // JWT numeric claims decode as float64
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getActor builds a permission.Actor from the request context. Requests
// that never passed JWTAuth produce the anonymous actor.
func getActor(c echo.Context) permission.Actor {
	id, err := getUserID(c)
	if err != nil {
		return permission.Actor{}
	}
	role, _ := c.Get("role").(string)
	return permission.Actor{ID: id, Role: role}
}

// paginate reads limit/offset query params with defaults and bounds.
func paginate(c echo.Context) (limit, offset int) {
	limit = defaultPageLimit
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if s := c.QueryParam("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// listResponse is the envelope returned by every list endpoint.
type listResponse struct {
	Count int64 `json:"count"`
	Items any   `json:"items"`
}

// denied maps an authorization denial to its HTTP response, carrying the
// machine-readable reason for the update/delete asymmetry.
func denied(c echo.Context, d permission.Decision) error {
	if d.Reason == permission.ReasonUnauthenticated {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	msg := "forbidden"
	switch d.Reason {
	case permission.ReasonUpdateDenied:
		msg = "modifying foreign content is forbidden"
	case permission.ReasonDeleteDenied:
		msg = "deleting foreign content is forbidden"
	}
	return c.JSON(http.StatusForbidden, echo.Map{"error": msg, "reason": d.Reason})
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
