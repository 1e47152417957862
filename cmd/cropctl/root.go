package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cropctl",
		Short:        "Crop advisory decision engine tooling",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newRecommendCommand(),
		newModelCommand(),
		newPatternsCommand(),
	)

	return cmd
}
