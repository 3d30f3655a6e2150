package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/model"
	"github.com/iliyamo/review-catalog/internal/repository"
)

// UserHandler implements the admin user CRUD plus the self endpoints.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

// userPatch carries a partial user update. Pointer fields distinguish
// "absent" from "set to empty".
type userPatch struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// apply copies the present patch fields onto the user. Role is only
// copied when withRole is set; the self endpoint passes false so a role
// key in the payload is dropped silently, not rejected.
func (p userPatch) apply(u *model.User, withRole bool) {
	if p.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if withRole && p.Role != nil {
		u.Role = *p.Role
	}
}

func validRole(role string) bool {
	switch role {
	case model.RoleUser, model.RoleModerator, model.RoleAdmin:
		return true
	}
	return false
}

// List handles GET /v1/users (admin only): paginated, with an optional
// search= username substring filter.
func (h *UserHandler) List(c echo.Context) error {
	limit, offset := paginate(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Users.Search(ctx, c.QueryParam("search"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, listResponse{Count: total, Items: items})
}

// Create handles POST /v1/users (admin only). Unlike signup this accepts
// a role and the profile fields up front.
func (h *UserHandler) Create(c echo.Context) error {
	var body struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
		Role      string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	username := strings.TrimSpace(body.Username)
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if username == "" || email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email required"})
	}
	if username == "me" || !usernameRe.MatchString(username) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid username"})
	}
	role := body.Role
	if role == "" {
		role = model.RoleUser
	}
	if !validRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user := &model.User{
		Username:  username,
		Email:     email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Bio:       body.Bio,
		Role:      role,
	}
	if err := h.Users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, user)
}

// Get handles GET /v1/users/:username (admin only).
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PATCH /v1/users/:username (admin only). This is the one
// path where a role change is honored.
func (h *UserHandler) Update(c echo.Context) error {
	var patch userPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if patch.Role != nil && !validRole(*patch.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	patch.apply(user, true)
	if err := h.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:username (admin only). The user's
// reviews and comments cascade away with the account.
func (h *UserHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.DeleteByUsername(ctx, c.Param("username")); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/users/me for any authenticated identity.
func (h *UserHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe handles PATCH /v1/users/me. Any role field in the payload is
// ignored rather than rejected; everything else behaves like a partial
// update of the caller's own record.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var patch userPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	patch.apply(user, false)
	if err := h.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, user)
}
