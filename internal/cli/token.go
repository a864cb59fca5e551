package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/auth"
)

// tokenCmd mints a development token signed with JWT_SECRET, for calling
// the server without the external auth service.
func tokenCmd() *cobra.Command {
	var userID string
	var email string
	var ttl time.Duration

	c := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(userID, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	c.Flags().StringVarP(&userID, "user", "u", "", "User id to put in the token (required)")
	c.Flags().StringVar(&email, "email", "", "Email claim")
	c.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = c.MarkFlagRequired("user")
	return c
}
