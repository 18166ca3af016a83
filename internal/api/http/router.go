package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/api/http/handlers"
	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration. Nil handlers are
// not mounted, so one router serves both binaries.
type RouteConfig struct {
	ContextPath    string
	Health         *handlers.HealthHandler
	Products       *handlers.CrudHandler[dto.ProductDto]
	Categories     *handlers.CrudHandler[dto.CategoryDto]
	Users          *handlers.UsersHandler
	Credentials    *handlers.CredentialsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
	// AuthRequired guards writes with a bearer token and deletes with ROLE_ADMIN.
	// User registration stays open; a token, when sent, is still honoured.
	AuthRequired bool
}

type guards struct {
	write    []fiber.Handler
	delete   []fiber.Handler
	register []fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	var g guards
	switch {
	case cfg.AuthMiddleware == nil:
	case cfg.AuthRequired:
		g.write = []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAuthenticated()}
		g.delete = []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin)}
		g.register = []fiber.Handler{cfg.AuthMiddleware.Optional}
	default:
		optional := []fiber.Handler{cfg.AuthMiddleware.Optional}
		g.write, g.delete, g.register = optional, optional, optional
	}

	api := app.Group(cfg.ContextPath + "/api")

	if cfg.Products != nil {
		mountCrud(api.Group("/products"), cfg.Products, g, g.write)
	}
	if cfg.Categories != nil {
		mountCrud(api.Group("/categories"), cfg.Categories, g, g.write)
	}
	if cfg.Users != nil {
		users := api.Group("/users")
		users.Get("/username/:username", cfg.Users.FindByUsername)
		mountCrud(users, cfg.Users.CrudHandler, g, g.register)
	}
	if cfg.Credentials != nil {
		credentials := api.Group("/credentials")
		credentials.Get("/username/:username", cfg.Credentials.FindByUsername)
		mountCrud(credentials, cfg.Credentials.CrudHandler, g, g.write)
	}
	if cfg.Auth != nil {
		api.Post("/authenticate", cfg.Auth.Authenticate)
	}
}

// mountCrud registers the five resource routes; create carries the guards for POST.
func mountCrud[D any](r fiber.Router, h *handlers.CrudHandler[D], g guards, create []fiber.Handler) {
	r.Get("", h.FindAll)
	r.Get("/:id", h.FindByID)
	r.Post("", with(create, h.Save)...)
	r.Put("", with(g.write, h.UpdateFromBody)...)
	r.Put("/:id", with(g.write, h.Update)...)
	r.Delete("/:id", with(g.delete, h.DeleteByID)...)
}

func with(chain []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, h)
}
