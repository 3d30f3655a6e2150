package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/review-catalog/internal/repository"
)

func TestYearInFuture(t *testing.T) {
	now := time.Now().UTC().Year()
	assert.False(t, yearInFuture(now))
	assert.False(t, yearInFuture(1965))
	assert.True(t, yearInFuture(now+1))
	assert.True(t, yearInFuture(2999))
}

func TestCreateTitleRejectsFutureYear(t *testing.T) {
	h := &TitleHandler{}
	c, rec := newTestContext(http.MethodPost, "/v1/titles",
		`{"name":"Dune","year":2999,"category":"books","genre":["sci-fi"]}`)
	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "future")
}

func TestCreateTitleRequiredFields(t *testing.T) {
	year := time.Now().UTC().Year()
	cases := []struct {
		body string
		want string
	}{
		{`{}`, "name is required"},
		{`{"name":"Dune","category":"books","genre":[]}`, "year is required"},
		{fmt.Sprintf(`{"name":"Dune","year":%d,"genre":[]}`, year), "category is required"},
		{fmt.Sprintf(`{"name":"Dune","year":%d,"category":"books"}`, year), "genre is required"},
	}
	h := &TitleHandler{}
	for _, tc := range cases {
		c, rec := newTestContext(http.MethodPost, "/v1/titles", tc.body)
		assert.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
		assert.Contains(t, rec.Body.String(), tc.want)
	}
}

func TestUpdateTitleRejectsFutureYearBeforeLookup(t *testing.T) {
	h := &TitleHandler{}
	c, rec := newTestContext(http.MethodPatch, "/v1/titles/1", `{"year":3000}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTitleUnknownGenreSlugWritesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewTitleHandler(
		repository.NewTitleRepo(db, nil),
		repository.NewCategoryRepo(db),
		repository.NewGenreRepo(db),
	)

	mock.ExpectQuery("FROM categories").
		WithArgs("books").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow(1, "Books", "books"))
	mock.ExpectQuery("FROM genres").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	body := fmt.Sprintf(`{"name":"Dune","year":%d,"category":"books","genre":["nope"]}`,
		time.Now().UTC().Year())
	c, rec := newTestContext(http.MethodPost, "/v1/titles", body)
	assert.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"unknown genre slug"}`, rec.Body.String())
	// No INSERT was expected; a write would fail this.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTitleUnknownCategorySlugWritesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewTitleHandler(
		repository.NewTitleRepo(db, nil),
		repository.NewCategoryRepo(db),
		repository.NewGenreRepo(db),
	)

	mock.ExpectQuery("FROM titles t").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "description", "cid", "cname", "cslug"}).
			AddRow(4, "Dune", 1965, "", 1, "Books", "books"))
	mock.ExpectQuery("FROM reviews WHERE title_id").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))
	mock.ExpectQuery("FROM genres g").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))
	mock.ExpectQuery("FROM categories").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	c, rec := newTestContext(http.MethodPatch, "/v1/titles/4", `{"category":"nope"}`)
	c.SetParamNames("id")
	c.SetParamValues("4")
	assert.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"unknown category slug"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTitleHandlersRejectBadID(t *testing.T) {
	h := &TitleHandler{}

	c, rec := newTestContext(http.MethodGet, "/v1/titles/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(http.MethodDelete, "/v1/titles/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	assert.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
