package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"sareeadmin.GO/core/app"
)

var rootCmd = &cobra.Command{
	Use:          "sareeadmin",
	Short:        "Saree admin back-office maintenance commands",
	SilenceUsage: true,
}

// newApp builds the service container; tests swap it for an in-memory one.
var newApp = app.Bootstrap

// Execute applies registered commands and runs the root command.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
