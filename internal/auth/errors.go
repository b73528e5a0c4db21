package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// ErrTokenExpired is returned when a token's exp claim is in the past.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenInvalid covers signature, issuer, audience, purpose, and parse
// failures. Callers should not be able to tell which check failed.
var ErrTokenInvalid = goerrors.New("invalid or malformed token", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode("TOKEN_INVALID")

// ErrNoEmptyString rejects empty plaintext passwords before hashing
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("EMPTY_PASSWORD")

// ErrMismatchedHashAndPassword is returned when a plaintext password does
// not verify against a stored digest.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode("PASSWORD_MISMATCH")
