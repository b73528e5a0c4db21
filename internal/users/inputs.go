package users

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	minAge            = 18
	maxAge            = 120
	minPasswordLength = 8
	maxPasswordLength = 100
)

// RegisterInput is the payload accepted by Manager.Register.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Age      *int   `json:"age,omitempty"`
	Password string `json:"password"`
}

func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Age, validation.Min(minAge), validation.Max(maxAge)),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
	)
}

// UpdateProfileInput carries the mutable profile fields. Nil means
// "leave unchanged"; at least one field must be present.
type UpdateProfileInput struct {
	Name *string `json:"name,omitempty"`
	Age  *int    `json:"age,omitempty"`
}

func (u UpdateProfileInput) Validate() error {
	if u.Name == nil && u.Age == nil {
		return validation.Errors{
			"fields": errors.New("at least one of name or age must be provided"),
		}
	}

	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty),
		validation.Field(&u.Age, validation.Min(minAge), validation.Max(maxAge)),
	)
}

func validatePassword(password string) error {
	return validation.Validate(password,
		validation.Required,
		validation.Length(minPasswordLength, maxPasswordLength),
	)
}
