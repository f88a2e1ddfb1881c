package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KyubiGames/autoenvios-ml/internal/config"
	"github.com/KyubiGames/autoenvios-ml/internal/oauth"
	"github.com/KyubiGames/autoenvios-ml/internal/storage"
	"github.com/KyubiGames/autoenvios-ml/internal/token"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Credential commands",
	}
	cmd.AddCommand(tokenCheckCmd())
	return cmd
}

// tokenCheckCmd runs one refresh-token grant against the configured
// credentials and reports whether it succeeded. Token values are never
// printed.
func tokenCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the configured refresh token still works",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			if cfg.Meli.RefreshToken == "" {
				return errors.New("MELI_REFRESH_TOKEN is not set")
			}

			store := storage.NewMemoryCredentialStore()
			if err := store.Set(ctx, storage.Credentials{
				RefreshToken: cfg.Meli.RefreshToken,
				ObtainedAt:   time.Now(),
			}); err != nil {
				return err
			}

			refresher := token.NewRefresher(oauth.NewConfig(cfg), store)

			start := time.Now()
			if _, err := refresher.Refresh(ctx); err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}

			fmt.Printf("Refresh OK (%s)\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
