// Package cli wires the social-be commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isdelr/social-be/internal/config"
	"github.com/isdelr/social-be/internal/database"
)

// NewRootCommand returns the social-be command tree. Without a subcommand it
// runs the HTTP server.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "social-be",
		Short: "Social feed API: posts, comments, likes and login",
		Long: `social-be serves the social feed REST API.

Configuration is read from the environment (PORT, DB_*, JWT_SECRET, ...).

Examples:
  social-be                                        # Run the server (default)
  social-be migrate                                # Create the schema and exit
  social-be user create --username alice --password wonder
  social-be hash-password --password wonder`,
		SilenceUsage: true,
		RunE:         serveCommand,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newUserCommand())
	rootCmd.AddCommand(newHashPasswordCommand())
	return rootCmd
}

// openDatabase connects with the configured driver and applies the schema.
func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.New(database.Dialect(cfg.DatabaseDriver), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}
