package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"users-api/internal/auth"
	"users-api/internal/users"
)

// identityKey is where the bearer middleware stashes verified claims on the
// request context.
const identityKey = "identity"

// requireAuth verifies the bearer token on the Authorization header and
// makes its claims available to the handler. Reset tokens are rejected
// here: only purpose-less access tokens authenticate requests. A token
// whose subject no longer has an account is rejected too, so deleting an
// account invalidates its outstanding tokens.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return respondError(c, ErrMissingToken)
	}

	claims, err := s.tokens.Verify(header, "")
	if err != nil {
		return respondError(c, err)
	}

	if _, err := s.users.Get(c.Context(), claims.Subject); err != nil {
		if goerrors.Is(err, users.ErrUserNotFound) {
			return respondError(c, auth.ErrTokenInvalid)
		}
		return respondError(c, err)
	}

	c.Locals(identityKey, claims)
	return c.Next()
}

// claimsFrom returns the verified claims set by requireAuth, or nil on
// unprotected routes.
func claimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(identityKey).(*auth.Claims)
	return claims
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.logger.Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return err
}
