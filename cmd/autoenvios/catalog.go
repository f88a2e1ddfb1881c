package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KyubiGames/autoenvios-ml/internal/catalog"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Message catalog commands",
	}
	cmd.AddCommand(catalogValidateCmd())
	return cmd
}

func catalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a message catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Entries: %d\n", cat.Len())
			if cat.HasDefault() {
				fmt.Println("Default: configured")
			} else {
				fmt.Println("Default: none (unmatched items will be skipped)")
			}
			return nil
		},
	}
}
