package cli

import (
	"fmt"
	"strconv"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/isdelr/social-be/internal/auth"
)

func newHashPasswordCommand() *cobra.Command {
	flags := map[string]cobraflags.Flag{
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "Plaintext password to hash (required)",
		},
		costFlag: &cobraflags.StringFlag{
			Name:  costFlag,
			Value: strconv.Itoa(auth.PasswordCost),
			Usage: "bcrypt cost factor",
		},
	}

	hashCmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of a password",
		Long: `Print the bcrypt hash of a password, for seeding the users table by hand.

Prefer "user create", which inserts the row as well.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := flags[passwordFlag].GetString()
			if password == "" {
				return fmt.Errorf("--%s is required", passwordFlag)
			}
			cost, err := strconv.Atoi(flags[costFlag].GetString())
			if err != nil {
				return fmt.Errorf("invalid --%s: %w", costFlag, err)
			}

			hash, err := auth.HashPasswordWithCost(password, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cobraflags.RegisterMap(hashCmd, flags)
	return hashCmd
}
