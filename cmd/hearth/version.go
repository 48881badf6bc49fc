package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/hearth"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hearth",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hearth version %s\n", hearth.Version)
		},
	}
}
