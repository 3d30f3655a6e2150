package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/config"
	"github.com/iliyamo/review-catalog/internal/model"
	"github.com/iliyamo/review-catalog/internal/queue"
	"github.com/iliyamo/review-catalog/internal/repository"
	mail "github.com/iliyamo/review-catalog/internal/service"
	"github.com/iliyamo/review-catalog/internal/utils"
)

// usernameRe matches the accepted username charset. "me" passes the
// pattern but is reserved for the self endpoint and rejected separately.
var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// AuthHandler bundles dependencies for the signup and token endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Codes *repository.CodeRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, codes *repository.CodeRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Codes: codes}
}

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenReq struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// Signup handles POST /v1/auth/signup. It creates an active account with
// the user role and queues a confirmation email. The account exists
// immediately; the code is only the key to obtaining an access token.
// Repeating the signup with the same username and email replaces the
// account's confirmation code, so a lost or expired code is recoverable.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email required"})
	}
	if username == "me" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": `user "me" can not be created`})
	}
	if !usernameRe.MatchString(username) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid username"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user := &model.User{Username: username, Email: email, Role: model.RoleUser}
	if err := h.Users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists), errors.Is(err, repository.ErrEmailExists):
			// Signing up again with the exact same identity is the
			// recovery path for a lost or expired confirmation code:
			// re-issue instead of rejecting.
			existing, lookupErr := h.Users.GetByUsername(ctx, username)
			if lookupErr == nil && existing.Email == email {
				user = existing
				break
			}
			if errors.Is(err, repository.ErrEmailExists) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
	}

	code, err := utils.NewConfirmationCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue code failed"})
	}
	hash, err := utils.HashCode(code, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue code failed"})
	}
	exp := time.Now().UTC().Add(time.Duration(h.Cfg.CodeTTLMin) * time.Minute)
	if err := h.Codes.Replace(ctx, user.ID, hash, exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save code failed"})
	}

	// Delivery is best-effort: the broker being down must not undo the
	// signup, the client can always sign up again to get a fresh code.
	_ = mail.PublishConfirmation(ctx, h.mailEvent(user, code))

	return c.JSON(http.StatusOK, echo.Map{"username": user.Username, "email": user.Email})
}

func (h *AuthHandler) mailEvent(u *model.User, code string) queue.MailEvent {
	return queue.MailEvent{
		To:       u.Email,
		From:     h.Cfg.EmailFrom,
		Username: u.Username,
		Subject:  "Hello",
		Body:     fmt.Sprintf("This is your confirmation code: %s", code),
	}
}

// Token handles POST /v1/auth/token, exchanging username plus confirmation
// code for a bearer access token. An unknown username is a lookup failure
// (404); a wrong or expired code is a validation failure (400).
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	username := strings.TrimSpace(req.Username)
	code := strings.TrimSpace(req.ConfirmationCode)
	if username == "" || code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/confirmation_code required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	stored, err := h.Codes.GetLive(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid confirmation code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyCode(stored.CodeHash, code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid confirmation code"})
	}
	_ = h.Codes.Consume(ctx, user.ID) // one-time secret

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Username, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": access.Token})
}
