package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/model"
	"github.com/iliyamo/review-catalog/internal/permission"
	"github.com/iliyamo/review-catalog/internal/repository"
)

// CommentHandler implements the comment collection nested two levels
// deep: title → review → comment. The same ownership rules as reviews
// apply, comments just carry no score.
type CommentHandler struct {
	Titles   *repository.TitleRepo
	Reviews  *repository.ReviewRepo
	Comments *repository.CommentRepo
}

func NewCommentHandler(t *repository.TitleRepo, r *repository.ReviewRepo, cm *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Titles: t, Reviews: r, Comments: cm}
}

// requireReview walks the nested path and confirms both parents exist,
// writing the error response itself on failure.
func (h *CommentHandler) requireReview(c echo.Context) (uint64, bool) {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid title id"})
		return 0, false
	}
	reviewID, err := pathID(c, "review_id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
		return 0, false
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if ok, err := h.Titles.Exists(ctx, titleID); err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		return 0, false
	} else if !ok {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		return 0, false
	}
	if _, err := h.Reviews.GetByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return 0, false
	}
	return reviewID, true
}

// List handles GET .../reviews/:review_id/comments, newest first.
func (h *CommentHandler) List(c echo.Context) error {
	reviewID, ok := h.requireReview(c)
	if !ok {
		return nil
	}
	limit, offset := paginate(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Comments.ListByReview(ctx, reviewID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Comment{}
	}
	return c.JSON(http.StatusOK, listResponse{Count: total, Items: items})
}

// Get handles GET .../comments/:id.
func (h *CommentHandler) Get(c echo.Context) error {
	reviewID, ok := h.requireReview(c)
	if !ok {
		return nil
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, reviewID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cm)
}

// Create handles POST .../comments for any authenticated identity.
func (h *CommentHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(body.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	reviewID, ok := h.requireReview(c)
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm := &model.Comment{ReviewID: reviewID, AuthorID: uid, Text: body.Text}
	if err := h.Comments.Create(ctx, cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, cm)
}

// Update handles PUT and PATCH .../comments/:id, author only.
func (h *CommentHandler) Update(c echo.Context) error {
	reviewID, ok := h.requireReview(c)
	if !ok {
		return nil
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Text *string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, reviewID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	d := permission.CanPerform(getActor(c), permission.ActionPartialUpdate,
		permission.Resource{Kind: permission.KindComment, AuthorID: cm.AuthorID})
	if !d.Allowed {
		return denied(c, d)
	}

	// Nothing to change without a text field; skip the write.
	if body.Text == nil {
		return c.JSON(http.StatusOK, cm)
	}
	if strings.TrimSpace(*body.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	cm.Text = *body.Text
	if err := h.Comments.Update(ctx, cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cm)
}

// Delete handles DELETE .../comments/:id: author, moderator or admin.
func (h *CommentHandler) Delete(c echo.Context) error {
	reviewID, ok := h.requireReview(c)
	if !ok {
		return nil
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, reviewID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	d := permission.CanPerform(getActor(c), permission.ActionDestroy,
		permission.Resource{Kind: permission.KindComment, AuthorID: cm.AuthorID})
	if !d.Allowed {
		return denied(c, d)
	}

	if err := h.Comments.Delete(ctx, cm.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
