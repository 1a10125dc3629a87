package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/http/handlers"
	"github.com/spec-kit/library-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Books          *handlers.BooksHandler
	Authors        *handlers.AuthorsHandler
	Reservations   *handlers.ReservationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", cfg.Accounts.Register)
	users.Post("/activate/:id", cfg.Accounts.Activate)
	users.Post("/activation-mail", cfg.Accounts.SendActivationMail)
	users.Post("/login", cfg.Accounts.Login)
	users.Post("/security-answer", cfg.Accounts.VerifySecurityAnswer)
	users.Post("/password/renew", cfg.Accounts.RenewPassword)
	users.Get("/password/expiry", cfg.Accounts.PasswordExpiry)

	me := users.Group("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	me.Patch("", cfg.Accounts.UpdateProfile)
	me.Delete("", cfg.Accounts.Unsubscribe)
	users.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Accounts.ChangePassword)
	users.Get("", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Accounts.ListByBirthdate)

	books := api.Group("/books")
	books.Get("", cfg.Books.List)
	books.Get("/:id", cfg.Books.Get)
	books.Get("/:id/availability", cfg.Reservations.Availability)
	books.Get("/:id/authors", cfg.Books.Authors)

	adminBooks := books.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	adminBooks.Post("", cfg.Books.Create)
	adminBooks.Put("/:id", cfg.Books.Update)
	adminBooks.Delete("/:id", cfg.Books.Delete)
	adminBooks.Put("/:id/authors", cfg.Books.SetAuthors)
	adminBooks.Get("/:id/reservations", cfg.Reservations.ListForBook)

	authors := api.Group("/authors")
	authors.Get("", cfg.Authors.List)
	authors.Get("/:id", cfg.Authors.Get)
	authors.Post("", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Authors.Create)

	reservations := api.Group("/reservations")
	reservations.Post("", cfg.Reservations.Reserve)
	reservations.Post("/:id/cancel", cfg.Reservations.Cancel)
	reservations.Get("", cfg.Reservations.ListForUser)
}
