package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/commit-name-finder/internal/domain"
)

// profileQuery resolves a login to its canonical spelling and public name.
type profileQuery struct {
	User struct {
		Login githubv4.String
		Name  githubv4.String
	} `graphql:"user(login: $login)"`
}

// FetchProfile looks the user up through the GraphQL API.
func (g *GitHubGateway) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	if g.graphqlClient == nil {
		return nil, ErrUnauthenticated
	}
	var q profileQuery
	variables := map[string]interface{}{"login": githubv4.String(username)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		// GraphQL reports unknown logins as a query error rather than a 404.
		if strings.Contains(err.Error(), "Could not resolve to a User") {
			return nil, fmt.Errorf("failed to fetch profile for %s: %w: %w", username, domain.ErrNotFound, err)
		}
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", username, err)
	}
	return &domain.Profile{
		Login: string(q.User.Login),
		Name:  string(q.User.Name),
	}, nil
}
