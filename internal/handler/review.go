package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/cache"
	"github.com/iliyamo/review-catalog/internal/model"
	"github.com/iliyamo/review-catalog/internal/permission"
	"github.com/iliyamo/review-catalog/internal/repository"
)

// ReviewHandler implements the review collection nested under a title.
// Reads are public; create needs an authenticated identity; update and
// destroy go through the authorization engine with the loaded review's
// author. Every write invalidates the title's cached rating.
type ReviewHandler struct {
	Titles  *repository.TitleRepo
	Reviews *repository.ReviewRepo
	Ratings *cache.RatingCache
}

func NewReviewHandler(t *repository.TitleRepo, r *repository.ReviewRepo, ratings *cache.RatingCache) *ReviewHandler {
	return &ReviewHandler{Titles: t, Reviews: r, Ratings: ratings}
}

type reviewWrite struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func validScore(score int) bool { return score >= 1 && score <= 10 }

// requireTitle resolves the :title_id path segment and confirms the title
// exists, writing the error response itself when it does not.
func (h *ReviewHandler) requireTitle(c echo.Context) (uint64, bool) {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid title id"})
		return 0, false
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Titles.Exists(ctx, titleID)
	if err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		return 0, false
	}
	if !ok {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		return 0, false
	}
	return titleID, true
}

// List handles GET /v1/titles/:title_id/reviews, newest first.
func (h *ReviewHandler) List(c echo.Context) error {
	titleID, ok := h.requireTitle(c)
	if !ok {
		return nil
	}
	limit, offset := paginate(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Reviews.ListByTitle(ctx, titleID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Review{}
	}
	return c.JSON(http.StatusOK, listResponse{Count: total, Items: items})
}

// Get handles GET /v1/titles/:title_id/reviews/:id.
func (h *ReviewHandler) Get(c echo.Context) error {
	titleID, ok := h.requireTitle(c)
	if !ok {
		return nil
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, titleID, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rev)
}

// Create handles POST /v1/titles/:title_id/reviews. A second review by
// the same author for the same title is rejected at validation time; the
// unique index backstops the race.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body reviewWrite
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Text == nil || strings.TrimSpace(*body.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	if body.Score == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score is required"})
	}
	if !validScore(*body.Score) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 10"})
	}

	titleID, ok := h.requireTitle(c)
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	exists, err := h.Reviews.ExistsByTitleAndAuthor(ctx, titleID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "review on this title already exists"})
	}

	rev := &model.Review{TitleID: titleID, AuthorID: uid, Text: *body.Text, Score: *body.Score}
	if err := h.Reviews.Create(ctx, rev); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "review on this title already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	h.Ratings.Invalidate(ctx, titleID)
	return c.JSON(http.StatusCreated, rev)
}

// Update handles PUT and PATCH /v1/titles/:title_id/reviews/:id. Only the
// author may edit, regardless of role.
func (h *ReviewHandler) Update(c echo.Context) error {
	titleID, ok := h.requireTitle(c)
	if !ok {
		return nil
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body reviewWrite
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Score != nil && !validScore(*body.Score) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 10"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, titleID, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	d := permission.CanPerform(getActor(c), permission.ActionPartialUpdate,
		permission.Resource{Kind: permission.KindReview, AuthorID: rev.AuthorID})
	if !d.Allowed {
		return denied(c, d)
	}

	if body.Text != nil {
		rev.Text = *body.Text
	}
	if body.Score != nil {
		rev.Score = *body.Score
	}
	if err := h.Reviews.Update(ctx, rev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Ratings.Invalidate(ctx, titleID)
	return c.JSON(http.StatusOK, rev)
}

// Delete handles DELETE /v1/titles/:title_id/reviews/:id. Authors remove
// their own reviews; moderators and admins may remove anyone's.
func (h *ReviewHandler) Delete(c echo.Context) error {
	titleID, ok := h.requireTitle(c)
	if !ok {
		return nil
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, titleID, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	d := permission.CanPerform(getActor(c), permission.ActionDestroy,
		permission.Resource{Kind: permission.KindReview, AuthorID: rev.AuthorID})
	if !d.Allowed {
		return denied(c, d)
	}

	if err := h.Reviews.Delete(ctx, rev.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.Ratings.Invalidate(ctx, titleID)
	return c.NoContent(http.StatusNoContent)
}
