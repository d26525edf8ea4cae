package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/factchecker/cinecheck/internal/api"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cinecheck %s\n", api.Version)
		},
	}
}
