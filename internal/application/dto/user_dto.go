package dto

import "time"

// CreateUserRequest alta de usuario (grectl create-user). El password se hashea en el caso de uso.
type CreateUserRequest struct {
	CompanyID string `json:"company_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" example:"bodega@empresa.pe"`
	Password string `json:"password"`
}

// LoginResponse token JWT con el rol del usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
