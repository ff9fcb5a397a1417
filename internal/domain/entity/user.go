package entity

import "time"

// Estados de User. Solo los activos pueden iniciar sesión.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User usuario de la API. El rol viaja en el JWT y decide quién emite y quién anula guías.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bodeguero, vendedor
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active indica si el usuario puede autenticarse.
func (u *User) Active() bool { return u.Status == UserStatusActive }
