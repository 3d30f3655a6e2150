package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidScore(t *testing.T) {
	assert.True(t, validScore(1))
	assert.True(t, validScore(10))
	assert.False(t, validScore(0))
	assert.False(t, validScore(11))
	assert.False(t, validScore(-3))
}

func TestCreateReviewRequiresAuth(t *testing.T) {
	h := &ReviewHandler{}
	c, rec := newTestContext(http.MethodPost, "/v1/titles/1/reviews",
		`{"text":"fine","score":7}`)
	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateReviewValidation(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"score":7}`, "text is required"},
		{`{"text":"  ","score":7}`, "text is required"},
		{`{"text":"fine"}`, "score is required"},
		{`{"text":"fine","score":0}`, "between 1 and 10"},
		{`{"text":"fine","score":11}`, "between 1 and 10"},
	}
	h := &ReviewHandler{}
	for _, tc := range cases {
		c, rec := newTestContext(http.MethodPost, "/v1/titles/1/reviews", tc.body)
		c.Set("user_id", uint64(5))
		assert.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
		assert.Contains(t, rec.Body.String(), tc.want)
	}
}

func TestReviewHandlersRejectBadTitleID(t *testing.T) {
	h := &ReviewHandler{}
	c, rec := newTestContext(http.MethodPatch, "/v1/titles/abc/reviews/1", `{"score":8}`)
	c.SetParamNames("title_id", "id")
	c.SetParamValues("abc", "1")
	c.Set("user_id", uint64(5))
	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid title id")
}
