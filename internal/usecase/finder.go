// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/commit-name-finder/internal/domain"
	"github.com/naka-gawa/commit-name-finder/internal/gateway"
)

// Finder is the use case for collecting committer names.
// It walks a user's repositories one at a time and owns the name set for the run.
type Finder struct {
	fetcher gateway.Fetcher
	scanner *Scanner
	logger  *log.Logger
	// timeout bounds a whole run; zero means no deadline.
	timeout time.Duration
}

// NewFinder creates a new Finder instance.
func NewFinder(fetcher gateway.Fetcher, logger *log.Logger, timeout time.Duration) *Finder {
	return &Finder{
		fetcher: fetcher,
		scanner: NewScanner(fetcher, logger),
		logger:  logger,
		timeout: timeout,
	}
}

// Search runs the scan and, for authenticated identities, looks up the user's profile alongside it.
// Both share the run deadline. The profile is decoration: failing to fetch it never changes the outcome of the scan.
func (f *Finder) Search(ctx context.Context, cfg domain.ScanConfig) *domain.Result {
	runCtx, cancel := f.withDeadline(ctx)
	defer cancel()

	var (
		res     *domain.Result
		profile *domain.Profile
		eg      errgroup.Group
	)

	eg.Go(func() error {
		res = f.run(ctx, runCtx, cfg)
		return nil
	})

	if cfg.Identity.Authenticated() {
		eg.Go(func() error {
			p, err := f.fetcher.FetchProfile(runCtx, cfg.Identity.Username)
			if err != nil {
				return fmt.Errorf("fetching profile of %s: %w", cfg.Identity.Username, err)
			}
			profile = p
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		f.logger.Printf("Skipping profile lookup: %v", err)
	}
	res.Profile = profile
	return res
}

// Run performs the scan and always returns a result.
// Every terminal state except a missing user carries the names collected up to that point.
func (f *Finder) Run(ctx context.Context, cfg domain.ScanConfig) *domain.Result {
	runCtx, cancel := f.withDeadline(ctx)
	defer cancel()
	return f.run(ctx, runCtx, cfg)
}

// run scans under runCtx. ctx is the caller's context, kept to tell cancellation apart from the deadline.
func (f *Finder) run(ctx, runCtx context.Context, cfg domain.ScanConfig) *domain.Result {
	res := domain.NewResult(cfg.Identity.Username)

	f.enter(res, domain.StateEnumerating)
	repos, err := f.fetcher.ListRepositoriesForUser(runCtx, cfg.Identity.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			f.logger.Printf("Could not find repositories for %s", cfg.Identity.Username)
			res.Abort(domain.ReasonUserNotFound, err)
			return res
		}
		f.abort(ctx, res, err)
		return res
	}

	selected := FilterRepositories(repos, cfg.IncludeForks)
	f.logger.Printf("Found %d repositories, %d to scan", len(repos), len(selected))

	for i, repo := range selected {
		if err := runCtx.Err(); err != nil {
			f.abort(ctx, res, err)
			return res
		}

		res.State = domain.StateScanning
		f.logger.Printf("State: %s(%d) %s", domain.StateScanning, i, repo.FullName)

		scan, matched, err := f.scanner.Scan(runCtx, repo, cfg.Identity)
		if errors.Is(err, domain.ErrNotFound) {
			f.logger.Printf("Skipping %s: %v", repo.FullName, err)
			res.Repositories = append(res.Repositories, domain.RepositoryScan{FullName: repo.FullName, Missing: true})
			continue
		}
		if err != nil {
			f.abort(ctx, res, err)
			return res
		}

		res.Repositories = append(res.Repositories, scan)
		for _, c := range matched {
			if res.Names.Add(c.CommitterName) {
				f.logger.Printf("  Found %q in commit %s", c.CommitterName, c.SHA)
			}
		}
	}

	f.enter(res, domain.StateDone)
	f.logger.Printf("Name search complete, %d unique names", res.Names.Len())
	return res
}

func (f *Finder) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.timeout)
}

func (f *Finder) enter(res *domain.Result, state domain.State) {
	res.State = state
	f.logger.Printf("State: %s", state)
}

// abort classifies err into a terminal reason. parent is the caller's context,
// so its cancellation is told apart from the run's own deadline.
func (f *Finder) abort(parent context.Context, res *domain.Result, err error) {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		res.Abort(domain.ReasonRateLimited, err)
	case parent.Err() != nil:
		res.Abort(domain.ReasonCancelled, err)
	case errors.Is(err, context.DeadlineExceeded):
		res.Abort(domain.ReasonUnexpected, fmt.Errorf("timed out after %s: %w", f.timeout, err))
	default:
		res.Abort(domain.ReasonUnexpected, err)
	}
	f.logger.Printf("State: %s(%s): %v", res.State, res.Reason, res.Err)
}
