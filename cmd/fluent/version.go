package main

import (
	"fmt"
	"strings"

	"github.com/rodrigues2k/fluent-selenium"
	"github.com/rodrigues2k/fluent-selenium/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fluent",
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimSpace(fluent.Version)
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.OutOrStdout(), version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "fluent version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("banner", false, "Print the banner")
}
