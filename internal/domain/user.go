package domain

import "time"

// User represents the storefront profile returned by the API
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// UserCreate represents signup form data
type UserCreate struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UserLogin represents login credentials
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate represents profile form data
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=512"`
}

// AuthResult is the body returned by register and login
type AuthResult struct {
	Token   string `json:"token"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}
