// Package permission implements the authorization decision table. Handlers
// build an Actor from the request's JWT claims (or leave it anonymous), a
// Resource from the record they loaded, and ask CanPerform whether the
// combination is allowed. The engine never touches the database: ownership
// is carried in by the caller.
package permission

import "github.com/iliyamo/review-catalog/internal/model"

// Action enumerates the operations a handler can ask about.
type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// Kind identifies the resource type a decision is being made for.
type Kind string

const (
	KindCategory Kind = "category"
	KindGenre    Kind = "genre"
	KindTitle    Kind = "title"
	KindReview   Kind = "review"
	KindComment  Kind = "comment"
	KindUser     Kind = "user"
)

// Machine-readable denial reasons surfaced to clients. The update/destroy
// split matters: moderators and admins may remove foreign reviews and
// comments but may never edit them.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonForbidden       = "forbidden"
	ReasonUpdateDenied    = "update_denied"
	ReasonDeleteDenied    = "delete_denied"
)

// Actor is the acting identity. The zero value is an anonymous caller.
type Actor struct {
	ID   uint64
	Role string
}

// Anonymous reports whether no authenticated identity backs the actor.
func (a Actor) Anonymous() bool { return a.ID == 0 }

// IsModerator reports whether the actor carries the moderator role.
func (a Actor) IsModerator() bool { return a.Role == model.RoleModerator }

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// Resource is the target of a decision. AuthorID is only meaningful for
// reviews and comments; categories, genres and titles have no owner.
type Resource struct {
	Kind     Kind
	AuthorID uint64
}

// Decision is the outcome of CanPerform. Reason is set only on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

func isRead(action Action) bool {
	return action == ActionList || action == ActionRetrieve
}

func isWrite(action Action) bool {
	return action == ActionUpdate || action == ActionPartialUpdate
}

// CanPerform resolves whether actor may perform action on resource.
func CanPerform(actor Actor, action Action, resource Resource) Decision {
	switch resource.Kind {
	case KindCategory, KindGenre, KindTitle:
		if isRead(action) {
			return allow()
		}
		return adminOnly(actor)
	case KindReview, KindComment:
		return feedbackDecision(actor, action, resource)
	case KindUser:
		return adminOnly(actor)
	}
	return deny(ReasonForbidden)
}

// adminOnly allows any action for admins and denies everyone else.
func adminOnly(actor Actor) Decision {
	if actor.Anonymous() {
		return deny(ReasonUnauthenticated)
	}
	if actor.IsAdmin() {
		return allow()
	}
	return deny(ReasonForbidden)
}

// feedbackDecision covers reviews and comments, the only resources with an
// author. Updates are reserved for the author without exception, so a
// moderator or admin touching foreign content gets update_denied even
// though the same actor could destroy it.
func feedbackDecision(actor Actor, action Action, resource Resource) Decision {
	if isRead(action) {
		return allow()
	}
	if actor.Anonymous() {
		return deny(ReasonUnauthenticated)
	}
	switch {
	case action == ActionCreate:
		return allow()
	case isWrite(action):
		if actor.ID == resource.AuthorID {
			return allow()
		}
		return deny(ReasonUpdateDenied)
	case action == ActionDestroy:
		if actor.ID == resource.AuthorID || actor.IsModerator() || actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonDeleteDenied)
	}
	return deny(ReasonForbidden)
}
