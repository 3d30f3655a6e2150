// Package router wires every endpoint of the API onto an Echo instance.
// Public reads carry no middleware; authenticated writes sit behind
// JWTAuth; catalog and user administration additionally require the admin
// role.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/review-catalog/internal/handler"
	"github.com/iliyamo/review-catalog/internal/middleware"
	"github.com/iliyamo/review-catalog/internal/model"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Categories *handler.CategoryHandler
	Genres     *handler.GenreHandler
	Titles     *handler.TitleHandler
	Reviews    *handler.ReviewHandler
	Comments   *handler.CommentHandler
}

// RegisterRoutes registers all routes. The jwtSecret must match the one
// used when issuing access tokens.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	// Signup and token exchange are the only unauthenticated writes.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/signup", h.Auth.Signup)
	authGroup.POST("/token", h.Auth.Token)

	// Public reads: anyone, including anonymous callers, may browse the
	// catalog and its reviews.
	e.GET("/v1/categories", h.Categories.List)
	e.GET("/v1/genres", h.Genres.List)
	e.GET("/v1/titles", h.Titles.List)
	e.GET("/v1/titles/:id", h.Titles.Get)
	e.GET("/v1/titles/:title_id/reviews", h.Reviews.List)
	e.GET("/v1/titles/:title_id/reviews/:id", h.Reviews.Get)
	e.GET("/v1/titles/:title_id/reviews/:review_id/comments", h.Comments.List)
	e.GET("/v1/titles/:title_id/reviews/:review_id/comments/:id", h.Comments.Get)

	// Feedback writes: any authenticated identity may create; ownership
	// and role checks for update/destroy happen in the handlers through
	// the permission engine.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.POST("/titles/:title_id/reviews", h.Reviews.Create)
	auth.PUT("/titles/:title_id/reviews/:id", h.Reviews.Update)
	auth.PATCH("/titles/:title_id/reviews/:id", h.Reviews.Update)
	auth.DELETE("/titles/:title_id/reviews/:id", h.Reviews.Delete)
	auth.POST("/titles/:title_id/reviews/:review_id/comments", h.Comments.Create)
	auth.PUT("/titles/:title_id/reviews/:review_id/comments/:id", h.Comments.Update)
	auth.PATCH("/titles/:title_id/reviews/:review_id/comments/:id", h.Comments.Update)
	auth.DELETE("/titles/:title_id/reviews/:review_id/comments/:id", h.Comments.Delete)

	// Self endpoints: any authenticated identity, own record only. The
	// static "me" segment wins over the :username parameter.
	auth.GET("/users/me", h.Users.Me)
	auth.PATCH("/users/me", h.Users.UpdateMe)

	// Administration: catalog writes and the full user CRUD.
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/categories", h.Categories.Create)
	admin.DELETE("/categories/:slug", h.Categories.Delete)
	admin.POST("/genres", h.Genres.Create)
	admin.DELETE("/genres/:slug", h.Genres.Delete)
	admin.POST("/titles", h.Titles.Create)
	admin.PUT("/titles/:id", h.Titles.Update)
	admin.PATCH("/titles/:id", h.Titles.Update)
	admin.DELETE("/titles/:id", h.Titles.Delete)
	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Create)
	admin.GET("/users/:username", h.Users.Get)
	admin.PATCH("/users/:username", h.Users.Update)
	admin.DELETE("/users/:username", h.Users.Delete)
}
