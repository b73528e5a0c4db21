package users

import (
	goerrors "github.com/goliatone/go-errors"
)

// ErrEmailInUse is returned when registration finds an existing record for
// the email. The check is best effort; see Manager.Register.
var ErrEmailInUse = goerrors.New("email already in use", goerrors.CategoryConflict).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("EMAIL_IN_USE")

// ErrUserNotFound is returned when an operation targets an id or email with
// no live record.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode("USER_NOT_FOUND")

// ErrInvalidCredentials is the single answer for both unknown email and
// wrong password, so login never reveals which one failed.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrIncorrectPassword is returned by password change when the current
// password does not verify. Unlike login, the caller is already
// authenticated, so it is safe to be specific.
var ErrIncorrectPassword = goerrors.New("current password is incorrect", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("INCORRECT_PASSWORD")

// validationError wraps ozzo's joined field messages in the shape the HTTP
// layer maps to a 400.
func validationError(err error) *goerrors.Error {
	return goerrors.New("validation error: "+err.Error(), goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode("VALIDATION_ERROR")
}

func storeFailure(err error, msg string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}
