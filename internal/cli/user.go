package cli

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/isdelr/social-be/internal/config"
	"github.com/isdelr/social-be/internal/logger"
	"github.com/isdelr/social-be/internal/services"
)

const (
	usernameFlag = "username"
	passwordFlag = "password"
	costFlag     = "cost"
)

func newUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	userCmd.AddCommand(newUserCreateCommand())
	return userCmd
}

// newUserCreateCommand seeds an account. There is no registration endpoint.
func newUserCreateCommand() *cobra.Command {
	flags := map[string]cobraflags.Flag{
		usernameFlag: &cobraflags.StringFlag{
			Name:  usernameFlag,
			Value: "",
			Usage: "Username of the new account (required)",
		},
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "Plaintext password, stored as a bcrypt hash (required)",
		},
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user with a hashed password",
		Example: `  social-be user create --username alice --password wonder`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username := flags[usernameFlag].GetString()
			password := flags[passwordFlag].GetString()
			if username == "" || password == "" {
				return fmt.Errorf("--%s and --%s are required", usernameFlag, passwordFlag)
			}

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

			// Creating users never issues tokens.
			user, err := services.NewUserService(db, nil).CreateUser(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cobraflags.RegisterMap(createCmd, flags)
	return createCmd
}
