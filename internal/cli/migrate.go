package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/isdelr/social-be/internal/config"
	"github.com/isdelr/social-be/internal/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		Long: `Apply the schema for the configured DB_DRIVER.

Every statement is CREATE ... IF NOT EXISTS, so running it again is harmless.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadDatabase()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger.Init(cfg.LogLevel, cfg.LogPretty)

			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			log.Info().Str("driver", cfg.DatabaseDriver).Msg("Schema is up to date")
			return nil
		},
	}
}
