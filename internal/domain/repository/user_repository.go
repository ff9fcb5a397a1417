package repository

import (
	"context"

	"github.com/jhoicas/gre-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para User.
type UserRepository interface {
	// Create devuelve domain.ErrDuplicate si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	// GetByEmail devuelve (nil, nil) si no existe. La comparación no distingue mayúsculas.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
