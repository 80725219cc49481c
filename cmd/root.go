// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/commit-name-finder/internal/report"
)

// NewRootCmd constructs the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit-name-finder <user>",
		Short: "Lists the committer names a GitHub user has committed under",
		Long: `commit-name-finder walks every repository owned by a GitHub user and collects
the distinct committer names attached to commits authored by that user.
Forked repositories are skipped unless --forks is given. If the rate limit is
hit or the search is interrupted, the names found so far are still printed.`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runFind,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("token", "t", "", "A GitHub token; authenticated requests get a much higher hourly rate limit (default $GITHUB_TOKEN)")
	cmd.Flags().BoolP("forks", "f", false, "Search all repositories including forks")
	cmd.Flags().Duration("timeout", 0, "Give up after this long, keeping the names found so far (default $COMMIT_NAME_FINDER_TIMEOUT or no limit)")
	cmd.Flags().StringP("output", "o", string(report.FormatText), "Output format: text, json or yaml")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	// Parse errors are usage errors, like a missing user.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitError(ExitUsage, "invalid flags", err)
	})

	return cmd
}

// Execute runs the root command and exits with the code matching the outcome.
// This is called by main.main().
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil && err.Error() != "" {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCodeOf(err))
}
