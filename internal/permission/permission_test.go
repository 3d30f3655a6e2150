package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/review-catalog/internal/model"
)

var (
	anonymous = Actor{}
	plainUser = Actor{ID: 1, Role: model.RoleUser}
	moderator = Actor{ID: 2, Role: model.RoleModerator}
	admin     = Actor{ID: 3, Role: model.RoleAdmin}
)

func TestCatalogReadsArePublic(t *testing.T) {
	for _, kind := range []Kind{KindCategory, KindGenre, KindTitle} {
		for _, action := range []Action{ActionList, ActionRetrieve} {
			d := CanPerform(anonymous, action, Resource{Kind: kind})
			assert.True(t, d.Allowed, "%s %s should be public", action, kind)
		}
	}
}

func TestCatalogWritesRequireAdmin(t *testing.T) {
	for _, kind := range []Kind{KindCategory, KindGenre, KindTitle} {
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionPartialUpdate, ActionDestroy} {
			assert.False(t, CanPerform(plainUser, action, Resource{Kind: kind}).Allowed)
			assert.False(t, CanPerform(moderator, action, Resource{Kind: kind}).Allowed)
			assert.True(t, CanPerform(admin, action, Resource{Kind: kind}).Allowed)
		}
	}
}

func TestCatalogWriteDenialReasons(t *testing.T) {
	d := CanPerform(anonymous, ActionCreate, Resource{Kind: KindTitle})
	assert.Equal(t, ReasonUnauthenticated, d.Reason)

	d = CanPerform(moderator, ActionDestroy, Resource{Kind: KindCategory})
	assert.Equal(t, ReasonForbidden, d.Reason)
}

func TestFeedbackReadsArePublic(t *testing.T) {
	for _, kind := range []Kind{KindReview, KindComment} {
		assert.True(t, CanPerform(anonymous, ActionList, Resource{Kind: kind}).Allowed)
		assert.True(t, CanPerform(anonymous, ActionRetrieve, Resource{Kind: kind}).Allowed)
	}
}

func TestFeedbackCreateRequiresIdentity(t *testing.T) {
	d := CanPerform(anonymous, ActionCreate, Resource{Kind: KindReview})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)

	assert.True(t, CanPerform(plainUser, ActionCreate, Resource{Kind: KindReview}).Allowed)
	assert.True(t, CanPerform(plainUser, ActionCreate, Resource{Kind: KindComment}).Allowed)
}

func TestAuthorControlsOwnContent(t *testing.T) {
	own := Resource{Kind: KindReview, AuthorID: plainUser.ID}
	for _, action := range []Action{ActionUpdate, ActionPartialUpdate, ActionDestroy} {
		assert.True(t, CanPerform(plainUser, action, own).Allowed)
	}
}

func TestForeignUpdateDeniedForEveryRole(t *testing.T) {
	foreign := Resource{Kind: KindReview, AuthorID: 99}
	for _, actor := range []Actor{plainUser, moderator, admin} {
		for _, action := range []Action{ActionUpdate, ActionPartialUpdate} {
			d := CanPerform(actor, action, foreign)
			assert.False(t, d.Allowed, "role %s must not edit foreign content", actor.Role)
			assert.Equal(t, ReasonUpdateDenied, d.Reason)
		}
	}
}

func TestForeignDestroyAsymmetry(t *testing.T) {
	foreign := Resource{Kind: KindComment, AuthorID: 99}

	// Moderators and admins may remove foreign content though they may
	// not edit it.
	assert.True(t, CanPerform(moderator, ActionDestroy, foreign).Allowed)
	assert.True(t, CanPerform(admin, ActionDestroy, foreign).Allowed)

	d := CanPerform(plainUser, ActionDestroy, foreign)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonDeleteDenied, d.Reason)
}

func TestUserCollectionIsAdminOnly(t *testing.T) {
	res := Resource{Kind: KindUser}
	for _, action := range []Action{ActionList, ActionRetrieve, ActionCreate, ActionUpdate, ActionDestroy} {
		assert.False(t, CanPerform(plainUser, action, res).Allowed)
		assert.False(t, CanPerform(moderator, action, res).Allowed)
		assert.True(t, CanPerform(admin, action, res).Allowed)
	}
}

func TestActorPredicates(t *testing.T) {
	assert.True(t, anonymous.Anonymous())
	assert.False(t, plainUser.Anonymous())
	assert.True(t, moderator.IsModerator())
	assert.False(t, moderator.IsAdmin())
	assert.True(t, admin.IsAdmin())
}
