package main

import (
	"github.com/casevault/privacy/cmd/privacyd"
	"github.com/spf13/cobra"
)

// Init the cmd
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "casevault",
		Short: "Case-study privacy pipeline server",
		Long:  `Tools and APIs for proving record properties, accounting compression savings and gating disclosure behind committee approval`,
	}

	rootCmd.AddCommand(
		privacyd.NewServeCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}
