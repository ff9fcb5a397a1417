// Package auth emite los JWT que usan las rutas de guías.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gre-api/internal/application/dto"
	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/repository"
	"github.com/jhoicas/gre-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// minPasswordLen longitud mínima de contraseña.
const minPasswordLen = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase alta de usuarios y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	cost     int
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, cost: bcrypt.DefaultCost, now: time.Now}
}

// WithCost cambia el costo de bcrypt (pruebas).
func (uc *AuthUseCase) WithCost(cost int) *AuthUseCase {
	uc.cost = cost
	return uc
}

// CreateUser hashea el password con bcrypt y persiste. domain.ErrDuplicate si el email ya existe.
func (uc *AuthUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	var errs []error
	if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, fmt.Errorf("email %q inválido", in.Email))
	}
	if len(in.Password) < minPasswordLen {
		errs = append(errs, fmt.Errorf("password debe tener al menos %d caracteres", minPasswordLen))
	}
	role := in.Role
	if role == "" {
		role = jwt.RoleVendedor
	}
	switch role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor:
	default:
		errs = append(errs, fmt.Errorf("rol %q desconocido", in.Role))
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Err: errors.Join(errs...)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.ConflictError{Msg: fmt.Sprintf("el email %s ya está registrado", email)}
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email inexistente y password incorrecto devuelven el mismo domain.ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active() {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
