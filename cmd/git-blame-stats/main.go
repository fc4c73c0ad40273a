// Package main provides the entry point for the git-blame-stats CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drafnel/git-blame-stats/cmd/git-blame-stats/commands"
	"github.com/drafnel/git-blame-stats/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "git-blame-stats",
		Short: "Line ownership statistics from git blame",
		Long: `git-blame-stats attributes every line of every tracked file at a revision
to the author who last touched it, and reports totals per author, file and language.

Commands:
  run       Attribute a repository and print the report
  version   Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
