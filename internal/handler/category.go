package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/model"
	"github.com/iliyamo/review-catalog/internal/repository"
)

// CategoryHandler implements the category collection: public list,
// admin-only create and destroy, keyed by slug.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(r *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: r}
}

// List handles GET /v1/categories with an optional search= name fragment.
func (h *CategoryHandler) List(c echo.Context) error {
	limit, offset := paginate(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Categories.List(ctx, c.QueryParam("search"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, listResponse{Count: total, Items: items})
}

// Create handles POST /v1/categories (admin only). The slug charset is
// validated before storage; the unique index has the final word on
// duplicates racing each other.
func (h *CategoryHandler) Create(c echo.Context) error {
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

	cat := &model.Category{Name: name, Slug: slug}
	if err := h.Categories.Create(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, cat)
}

// Delete handles DELETE /v1/categories/:slug (admin only). Categories
// never cascade onto titles, so deleting one that titles still reference
// is a conflict.
func (h *CategoryHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Categories.DeleteBySlug(ctx, c.Param("slug"))
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrCategoryNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "category is referenced by titles"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
}
