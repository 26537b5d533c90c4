// Package main provides the entry point for the importcheck CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importcheck/cmd/importcheck/commands"
	"github.com/Sumatoshi-tech/importcheck/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "importcheck",
		Short: "Import resolution checks for TypeScript projects",
		Long: `importcheck verifies that alias and relative imports in TypeScript
sources point at files that exist.

Commands:
  check     Report imports that do not resolve
  patch     Apply regex rewrite rules to source files`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewPatchCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "importcheck %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
