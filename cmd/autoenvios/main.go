package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KyubiGames/autoenvios-ml/internal/version"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "autoenvios",
		Short:   "Operator tooling for the MercadoLibre auto-messaging bridge",
		Version: version.Get(),
	}

	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
