package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the service has always used for stored
// credentials. Raising it only affects newly hashed passwords; existing
// digests carry their own cost and keep verifying.
const bcryptCost = 10

// HashPassword generates a salted bcrypt digest for the given plaintext.
// The salt is embedded in the returned digest.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(h), err
}

// ComparePasswordAndHash validates the given cleartext password against a
// stored bcrypt digest. The comparison is constant time.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}
