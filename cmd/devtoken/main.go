package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"zapshift/internal/auth"
	"zapshift/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "devtoken",
		Short: "Print an identity token for IDENTITY_PROVIDER=jwt",
		Long: "devtoken signs an HS256 identity token for the given email with JWT_SECRET.\n" +
			"Use it as the bearer token against a server started with IDENTITY_PROVIDER=jwt.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			cfg := config.Load()
			if cfg.JWTSecret == config.DefaultJWTSecret {
				return config.ErrDefaultJWTSecret
			}
			token, err := auth.NewJWTService(cfg.JWTSecret).IssueToken(email, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email claim of the token")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenExpiry, "token lifetime")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
