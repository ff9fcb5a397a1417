package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/gre-api/internal/application/auth"
	"github.com/jhoicas/gre-api/internal/application/dto"
	"github.com/jhoicas/gre-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gre-api/pkg/jwt"
)

var newUser dto.CreateUserRequest

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Crea un usuario para iniciar sesión en la API",
	Long: `Crea un usuario con password bcrypt. El rol decide el acceso:
admin emite y anula guías, bodeguero solo emite y consulta.

Ejemplo:
  grectl create-user --email admin@empresa.pe --password 'clave-segura' --role admin`,
	RunE: runCreateUser,
}

func init() {
	createUserCmd.Flags().StringVar(&newUser.Email, "email", "", "email de acceso [requerido]")
	createUserCmd.Flags().StringVar(&newUser.Password, "password", "", "password (mínimo 8 caracteres) [requerido]")
	createUserCmd.Flags().StringVar(&newUser.Name, "name", "", "nombre visible")
	createUserCmd.Flags().StringVar(&newUser.Role, "role", jwt.RoleBodeguero, "admin | bodeguero | vendedor")
	createUserCmd.Flags().StringVar(&newUser.CompanyID, "company-id", "", "empresa (UUID, opcional)")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	user, err := uc.CreateUser(ctx, newUser)
	if err != nil {
		return err
	}
	appLogger.Info().Str("user_id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("usuario creado")
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", user.ID, user.Email, user.Role)
	return nil
}
