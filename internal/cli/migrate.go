package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/gre-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Aplica, revierte o lista las migraciones embebidas",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	appLogger.Info().Str("comando", args[0]).Msg("ejecutando migraciones")
	if err := postgres.Migrate(ctx, pool, args[0]); err != nil {
		appLogger.Error().Err(err).Str("comando", args[0]).Msg("migración fallida")
		return err
	}
	appLogger.Info().Str("comando", args[0]).Msg("migraciones completadas")
	return nil
}
