package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/model"
	"github.com/iliyamo/review-catalog/internal/repository"
)

// GenreHandler implements the genre collection: public list, admin-only
// create and destroy, keyed by slug.
type GenreHandler struct {
	Genres *repository.GenreRepo
}

func NewGenreHandler(r *repository.GenreRepo) *GenreHandler {
	return &GenreHandler{Genres: r}
}

// List handles GET /v1/genres with an optional search= name fragment.
func (h *GenreHandler) List(c echo.Context) error {
	limit, offset := paginate(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Genres.List(ctx, c.QueryParam("search"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, listResponse{Count: total, Items: items})
}

// Create handles POST /v1/genres (admin only).
func (h *GenreHandler) Create(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(body.Name)
	slug := strings.TrimSpace(body.Slug)
	if name == "" || slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/slug required"})
	}
	if !slugRe.MatchString(slug) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slug"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	g := &model.Genre{Name: name, Slug: slug}
	if err := h.Genres.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create genre failed"})
	}
	return c.JSON(http.StatusCreated, g)
}

// Delete handles DELETE /v1/genres/:slug (admin only). Title links cascade
// away, titles themselves stay.
func (h *GenreHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Genres.DeleteBySlug(ctx, c.Param("slug")); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
