// Package cmd implements kzctl's CLI surface.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kzctl",
	Short: "KZ league operator CLI",
	Long:  "kzctl runs the league backend's out-of-band operator tasks: schema migration and similar one-shot jobs.",
}

func init() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	rootCmd.AddCommand(migrateCmd)
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
