package cmd

import (
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/commit-name-finder/internal/config"
	"github.com/naka-gawa/commit-name-finder/internal/domain"
	"github.com/naka-gawa/commit-name-finder/internal/gateway"
	"github.com/naka-gawa/commit-name-finder/internal/report"
	"github.com/naka-gawa/commit-name-finder/internal/usecase"
)

// newFetcher builds the GitHub gateway. Tests replace it.
var newFetcher = gateway.NewGitHubGateway

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return exitError(ExitUsage, "invalid configuration", err)
	}
	if len(args) > 1 {
		_ = cmd.Help()
		return exitError(ExitUsage, "expected exactly one user, got "+strings.Join(args, " "), nil)
	}
	if len(args) == 1 {
		cfg.User = args[0]
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return exitError(ExitUsage, "invalid flags", err)
	}
	if err := cfg.Validate(); err != nil {
		_ = cmd.Help()
		return exitError(ExitUsage, err.Error(), nil)
	}

	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if cfg.Verbose {
		logger.SetOutput(cmd.ErrOrStderr()) // If verbose, log to standard error.
	}

	// Ctrl-C stops the search but still prints what was found.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Println("Starting GitHub client...")
	fetcher, err := newFetcher(cfg.Token, logger)
	if err != nil {
		return exitError(ExitFailure, "failed to create GitHub gateway", err)
	}
	finder := usecase.NewFinder(fetcher, logger, cfg.Timeout)

	res := finder.Search(ctx, cfg.ScanConfig())

	if err := report.Render(cmd.OutOrStdout(), res, cfg.Output); err != nil {
		return exitError(ExitFailure, "failed to write results", err)
	}
	return outcome(res)
}

// applyFlags overrides environment defaults with the flags given on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("token") {
		cfg.Token, _ = flags.GetString("token")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("output") {
		v, _ := flags.GetString("output")
		format, err := report.ParseFormat(v)
		if err != nil {
			return err
		}
		cfg.Output = format
	}
	cfg.IncludeForks, _ = flags.GetBool("forks")
	cfg.Verbose, _ = flags.GetBool("verbose")
	return nil
}

// outcome maps the terminal state to an exit code. The report already told
// the user what happened, so the returned errors carry no message.
func outcome(res *domain.Result) error {
	if res.State != domain.StateAborted {
		return nil
	}
	switch res.Reason {
	case domain.ReasonUserNotFound:
		return exitError(ExitUserNotFound, "", nil)
	case domain.ReasonRateLimited, domain.ReasonCancelled:
		return exitError(ExitPartial, "", nil)
	default:
		return exitError(ExitFailure, "", nil)
	}
}
