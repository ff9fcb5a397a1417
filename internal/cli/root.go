// Package cli implementa grectl, la herramienta de administración de gre-api.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/gre-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gre-api/pkg/config"
	"github.com/jhoicas/gre-api/pkg/logger"
)

var (
	cfg       *config.Config
	appLogger *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:               "grectl",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Administración de gre-api",
	Long:              `Migraciones de base de datos, carga de catálogos, alta de usuarios y diagnóstico del certificado de firma.`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		appLogger = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("grectl")
		return nil
	},
}

// Execute ejecuta el comando raíz. Sale con código 1 ante cualquier error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedUbigeoCmd)
	rootCmd.AddCommand(checkCertCmd)
	rootCmd.AddCommand(createUserCmd)
}

// openPool conecta a PostgreSQL con la configuración cargada.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, nil
}
