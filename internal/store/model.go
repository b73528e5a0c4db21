package store

import "time"

// User is the persisted user record, the sole entity in the users table.
// Attribute names match the original table layout so the adapter can run
// against existing data.
type User struct {
	ID               string     `dynamodbav:"id"`
	Email            string     `dynamodbav:"email"`
	Name             string     `dynamodbav:"name"`
	Age              *int       `dynamodbav:"age,omitempty"`
	PasswordHash     string     `dynamodbav:"passwordHash,omitempty"`
	ResetTokenHash   string     `dynamodbav:"resetTokenHash,omitempty"`
	ResetTokenExpiry *time.Time `dynamodbav:"resetTokenExpiry,omitempty,unixtime"`
	CreatedAt        time.Time  `dynamodbav:"createdAt,unixtime"`
	UpdatedAt        time.Time  `dynamodbav:"updatedAt,unixtime"`
}
