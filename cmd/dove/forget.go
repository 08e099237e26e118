package main

import (
	"fmt"

	"github.com/foxseedlab/dove/internal/vault"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Delete the saved token",
	Long:  `Delete the encrypted token saved by a previous /login without opening the chat window.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		closeLog, err := initLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		tokens, err := do.Invoke[*vault.Vault](setupDI(cfg))
		if err != nil {
			return fmt.Errorf("resolve vault: %w", err)
		}
		if err := tokens.DeleteToken(); err != nil {
			return fmt.Errorf("delete saved token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved token deleted:", tokens.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}
