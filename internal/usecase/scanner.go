package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/naka-gawa/commit-name-finder/internal/domain"
	"github.com/naka-gawa/commit-name-finder/internal/gateway"
)

// Scanner fetches a repository's commits and keeps those authored by the target identity.
type Scanner struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewScanner creates a new Scanner instance.
func NewScanner(fetcher gateway.Fetcher, logger *log.Logger) *Scanner {
	return &Scanner{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Scan returns the commits of repo authored by identity together with the repository's counts.
// Errors are wrapped with the repository name; classification is left to the caller.
func (s *Scanner) Scan(ctx context.Context, repo domain.Repository, identity domain.Identity) (domain.RepositoryScan, []domain.Commit, error) {
	s.logger.Printf("Getting commits for %s", repo.FullName)
	commits, err := s.fetcher.ListCommits(ctx, repo)
	if err != nil {
		return domain.RepositoryScan{FullName: repo.FullName}, nil, fmt.Errorf("scanning %s: %w", repo.FullName, err)
	}
	s.logger.Printf("Processing %d commits...", len(commits))
	matched := MatchAuthor(commits, identity)
	return domain.RepositoryScan{
		FullName: repo.FullName,
		Commits:  len(commits),
		Matched:  len(matched),
	}, matched, nil
}

// MatchAuthor keeps the commits whose author login equals the identity's username, ignoring case.
// Commits without an author login never match.
func MatchAuthor(commits []domain.Commit, identity domain.Identity) []domain.Commit {
	matched := make([]domain.Commit, 0, len(commits))
	for _, c := range commits {
		if identity.Matches(c.AuthorLogin) {
			matched = append(matched, c)
		}
	}
	return matched
}
