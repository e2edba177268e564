// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/coil/internal/markdown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of coil",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "coil %s (grammar %s)\n", version, markdown.FrontmatterCodeOnly.Name())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
