package httpapi

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// ErrMissingToken is returned when a protected route gets no Authorization
// header at all.
var ErrMissingToken = goerrors.New("missing authentication token", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode("TOKEN_MISSING")

// ErrForbidden enforces the self-service boundary: a user may only modify or
// delete their own record.
var ErrForbidden = goerrors.New("you may only modify your own account", goerrors.CategoryAuthz).
	WithCode(goerrors.CodeForbidden).
	WithTextCode("FORBIDDEN")

func badPayload(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request payload").
		WithCode(goerrors.CodeBadRequest).
		WithTextCode("BAD_PAYLOAD")
}

// respondError maps a domain error onto a status and a JSON body. Anything
// that is not a classified rich error surfaces as an opaque 500.
func respondError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "an unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	message := richErr.Message
	if status >= fiber.StatusInternalServerError {
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
