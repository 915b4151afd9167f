package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marknotes/notes-service/internal/api/http/handlers"
	"github.com/marknotes/notes-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Notes          *handlers.NotesHandler
	Profile        *handlers.ProfileHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireUser())
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Get("/me", cfg.Auth.Me)

	notes := app.Group("/notes", cfg.AuthMiddleware.Handle, auth.RequireUser())
	notes.Get("", cfg.Notes.List)
	notes.Post("", cfg.Notes.Create)
	notes.Get("/:id", cfg.Notes.Get)
	notes.Patch("/:id", cfg.Notes.Update)
	notes.Delete("/:id", cfg.Notes.Delete)
	notes.Post("/:id/protect", cfg.Notes.Protect)
	notes.Post("/:id/self-destruct", cfg.Notes.SelfDestruct)

	profile := app.Group("/profile", cfg.AuthMiddleware.Handle, auth.RequireUser())
	profile.Get("/:id", cfg.Profile.Get)
	profile.Patch("/:id", cfg.Profile.Update)
	profile.Post("/:id/password", cfg.Profile.ChangePassword)

	admin := app.Group("/admin")
	admin.Post("/login", cfg.Admin.Login)

	adminProtected := admin.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	adminProtected.Post("/logout", cfg.Admin.Logout)
	adminProtected.Get("/me", cfg.Admin.Me)
	adminProtected.Get("/users", cfg.Admin.ListUsers)
	adminProtected.Post("/users", cfg.Admin.CreateUser)
	adminProtected.Post("/users/:id/approve", cfg.Admin.ApproveUser)
	adminProtected.Post("/users/:id/reject", cfg.Admin.RejectUser)
	adminProtected.Post("/users/:id/password", cfg.Admin.ChangeUserPassword)
	adminProtected.Delete("/users/:id", cfg.Admin.DeleteUser)
}
