package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/apptracker/internal/auth"
	"github.com/heartmarshall/apptracker/internal/config"
	"github.com/heartmarshall/apptracker/internal/domain"
)

var (
	tokenUserID int64
	tokenRole   string
	tokenTTL    time.Duration
)

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user-id", 0, "subject user id (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(domain.RoleUser), "role claim: user or admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user-id")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for local testing",
	Long: `Issue an access token signed with auth.jwt_secret. Production tokens
come from the identity service; this is meant for development and smoke tests.

Example:
  curl -H "Authorization: Bearer $(apptracker token --user-id 1 --role admin)" \
    localhost:8080/api/applications`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		role := domain.Role(tokenRole)
		if role != domain.RoleUser && role != domain.RoleAdmin {
			return fmt.Errorf("unknown role %q", tokenRole)
		}
		if tokenUserID <= 0 {
			return fmt.Errorf("user-id must be positive")
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer).
			GenerateAccessToken(tokenUserID, role, tokenTTL)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
