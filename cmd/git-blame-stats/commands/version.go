package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drafnel/git-blame-stats/pkg/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "git-blame-stats %s\n", version.String())
		},
	}
}
