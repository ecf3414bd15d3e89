package dto

import "time"

// RegisterRequest body para POST /api/auth/register.
type RegisterRequest struct {
	Usuario      string `json:"usuario"`
	Password     string `json:"password"`
	Nombre       string `json:"nombre,omitempty"`
	Departamento string `json:"departamento,omitempty"`
	Rol          string `json:"rol,omitempty"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Usuario  string `json:"usuario"`
	Password string `json:"password"`
}

// UserResponse usuario sin hash de password.
type UserResponse struct {
	ID           string    `json:"id"`
	Usuario      string    `json:"usuario"`
	Nombre       string    `json:"nombre"`
	Departamento string    `json:"departamento"`
	Rol          string    `json:"rol"`
	Estado       string    `json:"estado"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginResponse token + usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
