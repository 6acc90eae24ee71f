// Package types provides type definitions for structured data used throughout the interview-coach system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is shared by all request validators; validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = validator.New()

// User is the user profile shape returned by the API. It mirrors the db
// package's user row minus credential fields.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// Validate checks the registration payload against its field constraints.
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the login payload against its field constraints.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// LoginResponse carries the authenticated user and their bearer token;
// returned by both login and register.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdatePasswordRequest is the change-password payload.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Validate checks the change-password payload against its field constraints.
func (r *UpdatePasswordRequest) Validate() error {
	return validate.Struct(r)
}
