// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors shared across repositories
// so handlers can map failures to HTTP responses without inspecting SQL
// details.
package repository

import (
	"errors"
	"strings"
)

// Not-found sentinels, one per entity. Handlers translate these into 404
// responses for the missing parent or target resource.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCodeNotFound     = errors.New("confirmation code not found")
)

// Uniqueness violations. ErrReviewExists is special-cased because a second
// review for the same title must read as a validation failure, not a
// storage conflict.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
	ErrSlugExists     = errors.New("slug already exists")
	ErrReviewExists   = errors.New("review on this title already exists")
)

// ErrConflict is returned when a write cannot proceed because of dependent
// state, such as deleting a category that titles still reference. Handlers
// translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). Unique constraints are the sole guard against duplicate
// creation races, so repositories check this after every insert.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isRestricted reports whether err is a MySQL foreign-key restriction
// (errors 1451/1452), raised e.g. when deleting a category still
// referenced by titles.
func isRestricted(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "1451") || strings.Contains(err.Error(), "1452")
}
