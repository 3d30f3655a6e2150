package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/review-catalog/internal/model"
)

func strp(s string) *string { return &s }

func TestUserPatchApply(t *testing.T) {
	u := &model.User{Username: "reader", Email: "old@example.com", Role: model.RoleUser}

	patch := userPatch{Email: strp("  New@Example.COM "), Bio: strp("hi")}
	patch.apply(u, false)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, "hi", u.Bio)
	assert.Equal(t, "reader", u.Username)
}

func TestUserPatchDropsRoleForSelf(t *testing.T) {
	u := &model.User{Role: model.RoleUser}
	patch := userPatch{Role: strp(model.RoleAdmin)}

	patch.apply(u, false)
	assert.Equal(t, model.RoleUser, u.Role)

	patch.apply(u, true)
	assert.Equal(t, model.RoleAdmin, u.Role)
}

func TestValidRole(t *testing.T) {
	assert.True(t, validRole(model.RoleUser))
	assert.True(t, validRole(model.RoleModerator))
	assert.True(t, validRole(model.RoleAdmin))
	assert.False(t, validRole(""))
	assert.False(t, validRole("superuser"))
}

func TestAdminCreateUserValidation(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"email":"a@b.io"}`, "username/email required"},
		{`{"username":"reader"}`, "username/email required"},
		{`{"username":"me","email":"a@b.io"}`, "invalid username"},
		{`{"username":"bad name","email":"a@b.io"}`, "invalid username"},
		{`{"username":"reader","email":"a@b.io","role":"superuser"}`, "invalid role"},
	}
	h := &UserHandler{}
	for _, tc := range cases {
		c, rec := newTestContext(http.MethodPost, "/v1/users", tc.body)
		assert.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
		assert.Contains(t, rec.Body.String(), tc.want)
	}
}

func TestAdminUpdateUserRejectsUnknownRole(t *testing.T) {
	h := &UserHandler{}
	c, rec := newTestContext(http.MethodPatch, "/v1/users/reader", `{"role":"owner"}`)
	c.SetParamNames("username")
	c.SetParamValues("reader")
	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeRequiresAuth(t *testing.T) {
	h := &UserHandler{}
	c, rec := newTestContext(http.MethodGet, "/v1/users/me", "")
	assert.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
