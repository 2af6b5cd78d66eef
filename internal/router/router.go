// Package router wires handlers onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avrillon/dictee/internal/handler"
	"github.com/avrillon/dictee/internal/middleware"
	"github.com/avrillon/dictee/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Login, refresh and logout
// live under /v1/auth without JWT middleware; /v1/me is protected.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout stays public so an expired access token can still
	// invalidate its refresh token.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterAPI registers the authenticated application routes. The
// rate limiter is applied only to the AI-backed endpoints, where every
// request translates into a paid model call.
func RegisterAPI(e *echo.Echo, jwtSecret string, limiter echo.MiddlewareFunc,
	s *handler.SettingsHandler, u *handler.UploadHandler,
	d *handler.DictationHandler, cr *handler.CorrectionHandler) {

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	auth.GET("/settings", s.Get)
	auth.PUT("/settings", s.Update)
	auth.GET("/settings/voices", s.ListVoices)

	auth.POST("/upload", u.Upload)

	auth.GET("/dictations", d.List)
	auth.POST("/dictations/extract", d.Extract, limiter)
	auth.POST("/dictations/compose", d.Compose, limiter)
	auth.POST("/dictations/audio", d.Audio, limiter)
	auth.PUT("/dictations/:id/text", d.UpdateText)
	auth.POST("/dictations/:id/favorite", d.Favorite)
	auth.PUT("/dictations/:id/tags", d.UpdateTags)
	auth.DELETE("/dictations/:id", d.Delete)

	auth.POST("/corrections", cr.Create, limiter)
	auth.GET("/corrections", cr.List)
	auth.GET("/corrections/:id", cr.Get)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/settings", s.AdminGet)
	admin.PUT("/settings", s.AdminUpdate)
}
