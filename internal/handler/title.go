package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/model"
	"github.com/iliyamo/review-catalog/internal/repository"
)

// TitleHandler implements the title collection. Reads are public and
// return the nested category/genre representation with the derived
// rating; writes are admin-only and reference category and genres by slug.
type TitleHandler struct {
	Titles     *repository.TitleRepo
	Categories *repository.CategoryRepo
	Genres     *repository.GenreRepo
}

func NewTitleHandler(t *repository.TitleRepo, c *repository.CategoryRepo, g *repository.GenreRepo) *TitleHandler {
	return &TitleHandler{Titles: t, Categories: c, Genres: g}
}

// titleWrite is the write representation: category and genres by slug.
// Pointer fields let PATCH distinguish absent from empty.
type titleWrite struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

// yearInFuture reports whether a release year lies beyond the current one.
func yearInFuture(year int) bool {
	return year > time.Now().UTC().Year()
}

// List handles GET /v1/titles with name/category/genre/year filters.
func (h *TitleHandler) List(c echo.Context) error {
	limit, offset := paginate(c)
	f := repository.TitleFilter{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
		Genre:    c.QueryParam("genre"),
		Limit:    limit,
		Offset:   offset,
	}
	if s := c.QueryParam("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
		}
		f.Year = &y
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Titles.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Title{}
	}
	return c.JSON(http.StatusOK, listResponse{Count: total, Items: items})
}

// Get handles GET /v1/titles/:id.
func (h *TitleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Titles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTitleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, t)
}

// Create handles POST /v1/titles (admin only). All fields except
// description are required; unknown category or genre slugs fail
// validation before anything is written.
func (h *TitleHandler) Create(c echo.Context) error {
	var body titleWrite
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.Year == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year is required"})
	}
	if yearInFuture(*body.Year) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year is in the future"})
	}
	if body.Category == nil || *body.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category is required"})
	}
	if body.Genre == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "genre is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := &model.Title{Name: strings.TrimSpace(*body.Name), Year: *body.Year}
	if body.Description != nil {
		t.Description = *body.Description
	}
	if ok := h.resolveRefs(c, t, *body.Category, body.Genre); !ok {
		return nil
	}
	if err := h.Titles.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create title failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT and PATCH /v1/titles/:id (admin only). Both are
// treated as partial: only fields present in the payload change.
func (h *TitleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body titleWrite
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Year != nil && yearInFuture(*body.Year) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year is in the future"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Titles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTitleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if body.Name != nil {
		if strings.TrimSpace(*body.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}
		t.Name = strings.TrimSpace(*body.Name)
	}
	if body.Year != nil {
		t.Year = *body.Year
	}
	if body.Description != nil {
		t.Description = *body.Description
	}
	category := ""
	if body.Category != nil {
		category = *body.Category
	}
	if ok := h.resolveRefs(c, t, category, body.Genre); !ok {
		return nil
	}
	if err := h.Titles.Update(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Titles.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// resolveRefs swaps slug references for stored records, writing the error
// response itself on failure so callers must stop before touching storage.
// An empty category and nil genre slice leave the existing relations
// untouched.
func (h *TitleHandler) resolveRefs(c echo.Context, t *model.Title, category string, genres []string) bool {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if category != "" {
		cat, err := h.Categories.GetBySlug(ctx, category)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category slug"})
			} else {
				_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
			return false
		}
		t.Category = *cat
	}
	if genres != nil {
		resolved, err := h.Genres.GetBySlugs(ctx, genres)
		if err != nil {
			if errors.Is(err, repository.ErrGenreNotFound) {
				_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre slug"})
			} else {
				_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
			return false
		}
		t.Genres = resolved
	}
	return true
}

// Delete handles DELETE /v1/titles/:id (admin only).
func (h *TitleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Titles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTitleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
