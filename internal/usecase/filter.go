package usecase

import "github.com/naka-gawa/commit-name-finder/internal/domain"

// FilterRepositories selects the repositories to scan.
// Forks are dropped unless includeForks is set; relative order is preserved either way.
func FilterRepositories(repos []domain.Repository, includeForks bool) []domain.Repository {
	if includeForks {
		return repos
	}
	kept := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if !repo.Fork {
			kept = append(kept, repo)
		}
	}
	return kept
}
