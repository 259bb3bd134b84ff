// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-admin-base",
	Short: "GoAdminBase is a web application base with typed settings and managed users",
	Long: `GoAdminBase is a web application base providing a typed key/value
settings store, encrypted-at-rest user accounts with local and federated
sign-in, and an admin interface for managing both.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
