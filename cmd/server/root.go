package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command of the user service CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backendpro",
		Short: "backendPro user account and session service",
		Long: `backendPro serves user registration, login and session token
rotation over HTTP. Configuration is read from the environment.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewEnsureIndexesCmd())

	return cmd
}
