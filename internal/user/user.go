// Package user manages accounts, credentials, profiles and the
// follow relationships between users.
package user

import "time"

// User is a registered account. Email is the login identifier.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DateJoined   time.Time `db:"date_joined" json:"-"`
}

// Profile is a user as seen by a viewer.
type Profile struct {
	Email        string `db:"email" json:"email"`
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	IsSubscribed bool   `db:"is_subscribed" json:"is_subscribed"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=150,maxbytes=72,notnumeric"`
}

// PasswordChange is the set_password payload.
type PasswordChange struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=150,maxbytes=72,notnumeric"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

// Credentials is the token login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
