package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Password    string   `json:"password"`
	IsSuperuser bool     `json:"is_superuser"`
	Groups      []string `json:"groups"`
}

// UpdateUserRequest body para PATCH /users/:id.
type UpdateUserRequest struct {
	Email     *string   `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Password  *string   `json:"password"`
	IsActive  *bool     `json:"is_active"`
	Groups    *[]string `json:"groups"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	URL         string    `json:"url,omitempty"`
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsSuperuser bool      `json:"is_superuser"`
	IsActive    bool      `json:"is_active"`
	Groups      []string  `json:"groups"`
	DateJoined  time.Time `json:"date_joined"`
}

// GroupRequest body para crear o renombrar un grupo.
type GroupRequest struct {
	Name string `json:"name"`
}

// GroupResponse grupo en respuestas.
type GroupResponse struct {
	URL  string `json:"url,omitempty"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
