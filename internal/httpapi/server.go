// Package httpapi is the thin HTTP layer translating requests into
// credential manager calls and manager errors into status codes.
package httpapi

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"users-api/internal/auth"
	"users-api/internal/users"
)

// Server owns the fiber app and its route handlers.
type Server struct {
	app     *fiber.App
	users   *users.Manager
	tokens  *auth.TokenService
	logger  *slog.Logger
	metrics *metrics
}

// New assembles the app with its middleware chain and routes.
func New(manager *users.Manager, tokens *auth.TokenService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "users-api",
			DisableStartupMessage: true,
		}),
		users:   manager,
		tokens:  tokens,
		logger:  logger,
		metrics: newMetrics(),
	}

	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(s.metrics.middleware)
	s.app.Use(s.requestLogger)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}),
	))

	authGroup := s.app.Group("/auth")
	authGroup.Post("/register", s.handleRegister)
	authGroup.Post("/login", s.handleLogin)
	authGroup.Post("/change-password", s.requireAuth, s.handleChangePassword)
	authGroup.Post("/password-reset", s.handlePasswordResetRequest)
	authGroup.Post("/password-reset/redeem", s.handlePasswordResetRedeem)

	usersGroup := s.app.Group("/users", s.requireAuth)
	usersGroup.Get("/", s.handleListUsers)
	usersGroup.Get("/:id", s.handleGetUser)
	usersGroup.Put("/:id", s.handleUpdateUser)
	usersGroup.Delete("/:id", s.handleDeleteUser)
}

// App exposes the underlying fiber app, used by tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving requests on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
