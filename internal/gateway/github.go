// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/gregjones/httpcache"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/commit-name-finder/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// ListRepositoriesForUser returns every repository owned by username.
	// It fails with domain.ErrNotFound when the user does not exist.
	ListRepositoriesForUser(ctx context.Context, username string) ([]domain.Repository, error)
	// ListCommits returns every commit of the repository's default branch, all pages concatenated.
	ListCommits(ctx context.Context, repo domain.Repository) ([]domain.Commit, error)
	// FetchProfile resolves the user's canonical login and profile name. It needs a token.
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
}

// ErrUnauthenticated is returned by calls that the GitHub API only serves to authenticated clients.
var ErrUnauthenticated = errors.New("a token is required for this request")

const perPage = 100

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	// graphqlClient is nil in anonymous mode; the GraphQL API rejects unauthenticated requests.
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// NewGitHubGateway creates a gateway with the following transport stack:
//  1. httpcache (ETag-based conditional requests, which do not count against the rate limit)
//  2. go-github-ratelimit (sleeps through secondary rate limits, at most once per request)
//  3. oauth2 (only when a token is given; otherwise requests are anonymous)
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(cacheTransport, github_ratelimit.WithSingleSleepLimit(1*time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	if token == "" {
		logger.Println("No token given, using anonymous requests (lower rate limit).")
		return &GitHubGateway{
			restClient: github.NewClient(&http.Client{Transport: rateLimitWaiter}),
			logger:     logger,
		}, nil
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// ListRepositoriesForUser lists the repositories owned by username, following pagination.
func (g *GitHubGateway) ListRepositoriesForUser(ctx context.Context, username string) ([]domain.Repository, error) {
	g.logger.Printf("Fetching repositories for %s...", username)
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	repos := []domain.Repository{}
	for {
		result, resp, err := g.restClient.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			return nil, fmt.Errorf("listing repositories for %s (page %d): %w", username, opts.Page, classify(err))
		}
		g.logRateLimit(resp)
		for _, r := range result {
			repos = append(repos, mapRepository(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of repositories...")
	}
	return repos, nil
}

// ListCommits lists every commit of repo, following pagination.
// An empty repository yields no commits rather than an error.
func (g *GitHubGateway) ListCommits(ctx context.Context, repo domain.Repository) ([]domain.Commit, error) {
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	commits := []domain.Commit{}
	for {
		result, resp, err := g.restClient.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			if isEmptyRepository(err) {
				g.logger.Printf("  %s is empty.", repo.FullName)
				return commits, nil
			}
			return nil, fmt.Errorf("listing commits for %s (page %d): %w", repo.FullName, opts.Page, classify(err))
		}
		g.logRateLimit(resp)
		for _, c := range result {
			commits = append(commits, mapCommit(c))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Printf("  Fetching next page of commits for %s...", repo.FullName)
	}
	return commits, nil
}

// mapRepository converts a go-github Repository using the nil-safe getters.
func mapRepository(r *github.Repository) domain.Repository {
	return domain.Repository{
		ID:       r.GetID(),
		Owner:    r.GetOwner().GetLogin(),
		Name:     r.GetName(),
		FullName: r.GetFullName(),
		Fork:     r.GetFork(),
	}
}

// mapCommit converts a go-github RepositoryCommit.
// Author is the GitHub account linked to the commit and is nil when the author email matches no account.
func mapCommit(c *github.RepositoryCommit) domain.Commit {
	return domain.Commit{
		SHA:           c.GetSHA(),
		AuthorLogin:   c.GetAuthor().GetLogin(),
		CommitterName: c.GetCommit().GetCommitter().GetName(),
	}
}

// classify maps go-github errors onto the domain error taxonomy.
// Errors that fit no category are returned unchanged.
func classify(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &domain.RateLimitError{Reset: rateErr.Rate.Reset.Time, Err: err}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		var reset time.Time
		if retryAfter := abuseErr.GetRetryAfter(); retryAfter > 0 {
			reset = time.Now().Add(retryAfter)
		}
		return &domain.RateLimitError{Reset: reset, Err: err}
	}
	if statusCode(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return err
}

// isEmptyRepository reports whether err is GitHub's 409 answer for a repository without commits.
func isEmptyRepository(err error) bool {
	return statusCode(err) == http.StatusConflict
}

func statusCode(err error) int {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode
	}
	return 0
}

// logRateLimit logs the remaining request quota after each call.
// Responses served from the cache carry the quota of the original request and are ignored.
func (g *GitHubGateway) logRateLimit(resp *github.Response) {
	if resp == nil || resp.Response == nil || resp.Header.Get(httpcache.XFromCache) != "" {
		return
	}
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		g.logger.Printf("  Warning: GitHub rate limit low: %d/%d remaining, resets in %s",
			resp.Rate.Remaining, resp.Rate.Limit, time.Until(resp.Rate.Reset.Time).Round(time.Second))
	}
}
