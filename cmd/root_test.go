package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/commit-name-finder/internal/domain"
	"github.com/naka-gawa/commit-name-finder/internal/gateway"
	"github.com/naka-gawa/commit-name-finder/internal/report"
)

// stubFetcher serves canned repositories and commits keyed by full name.
type stubFetcher struct {
	repos      map[string][]domain.Repository
	commits    map[string][]domain.Commit
	commitErrs map[string]error
}

func (s *stubFetcher) ListRepositoriesForUser(_ context.Context, username string) ([]domain.Repository, error) {
	repos, ok := s.repos[username]
	if !ok {
		return nil, fmt.Errorf("listing repositories for %s (page 0): %w", username, domain.ErrNotFound)
	}
	return repos, nil
}

func (s *stubFetcher) ListCommits(_ context.Context, repo domain.Repository) ([]domain.Commit, error) {
	if err, ok := s.commitErrs[repo.FullName]; ok {
		return nil, err
	}
	return s.commits[repo.FullName], nil
}

func (s *stubFetcher) FetchProfile(_ context.Context, _ string) (*domain.Profile, error) {
	return nil, gateway.ErrUnauthenticated
}

func newStub() *stubFetcher {
	return &stubFetcher{
		repos: map[string][]domain.Repository{
			"alice": {
				{ID: 1, Owner: "alice", Name: "tools", FullName: "alice/tools"},
				{ID: 2, Owner: "alice", Name: "upstream", FullName: "alice/upstream", Fork: true},
			},
		},
		commits: map[string][]domain.Commit{
			"alice/tools":    {{SHA: "a1", AuthorLogin: "alice", CommitterName: "Alice A."}},
			"alice/upstream": {{SHA: "f1", AuthorLogin: "Alice", CommitterName: "alice-fork"}},
		},
	}
}

// executeRoot runs the root command with args against fetcher and returns its output.
func executeRoot(t *testing.T, fetcher gateway.Fetcher, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("COMMIT_NAME_FINDER_TIMEOUT", "")
	t.Setenv("COMMIT_NAME_FINDER_OUTPUT", "")

	var gotToken string
	orig := newFetcher
	newFetcher = func(token string, _ *log.Logger) (gateway.Fetcher, error) {
		gotToken = token
		return fetcher, nil
	}
	t.Cleanup(func() { newFetcher = orig })

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), gotToken, err
}

func TestRootCmd_MissingUser(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: []string{}},
		{name: "blank user", args: []string{"  "}},
		{name: "two users", args: []string{"alice", "bob"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := executeRoot(t, newStub(), tc.args...)

			require.Error(t, err)
			assert.Equal(t, ExitUsage, ExitCodeOf(err))
			assert.Contains(t, out, "Usage:")
			assert.Contains(t, out, "--forks")
		})
	}
}

func TestRootCmd_Help(t *testing.T) {
	out, _, err := executeRoot(t, newStub(), "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "commit-name-finder <user>")
	assert.Contains(t, out, "--token")
	assert.Contains(t, out, "--timeout")
}

func TestRootCmd_Find(t *testing.T) {
	testCases := []struct {
		name         string
		args         []string
		expectedOut  string
		expectedCode int
	}{
		{
			name:         "forks skipped by default",
			args:         []string{"alice"},
			expectedOut:  "Name search complete! Found 1 unique names\n\tAlice A.\n",
			expectedCode: ExitOK,
		},
		{
			name:         "forks included with --forks",
			args:         []string{"alice", "--forks"},
			expectedOut:  "Name search complete! Found 2 unique names\n\tAlice A.\n\talice-fork\n",
			expectedCode: ExitOK,
		},
		{
			name:         "unknown user",
			args:         []string{"dave"},
			expectedOut:  "Could not find repositories for dave\n",
			expectedCode: ExitUserNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := executeRoot(t, newStub(), tc.args...)

			assert.Equal(t, tc.expectedCode, ExitCodeOf(err))
			assert.Contains(t, out, tc.expectedOut)
		})
	}
}

func TestRootCmd_RateLimitedPrintsPartialNames(t *testing.T) {
	stub := &stubFetcher{
		repos: map[string][]domain.Repository{
			"carol": {
				{Owner: "carol", Name: "a", FullName: "carol/a"},
				{Owner: "carol", Name: "b", FullName: "carol/b"},
				{Owner: "carol", Name: "c", FullName: "carol/c"},
			},
		},
		commits: map[string][]domain.Commit{
			"carol/a": {{SHA: "c1", AuthorLogin: "carol", CommitterName: "Carol C."}},
		},
		commitErrs: map[string]error{
			"carol/b": &domain.RateLimitError{Err: fmt.Errorf("API rate limit exceeded")},
		},
	}

	out, _, err := executeRoot(t, stub, "carol")

	require.Error(t, err)
	assert.Empty(t, err.Error())
	assert.Equal(t, ExitPartial, ExitCodeOf(err))
	assert.Contains(t, out, "The rate limit was exceeded! Found 1 unique names before stopping\n\tCarol C.\n")
}

func TestRootCmd_TokenAndOutputFlags(t *testing.T) {
	out, token, err := executeRoot(t, newStub(), "alice", "--token", "ghp_flag", "--output", "json")

	require.NoError(t, err)
	assert.Equal(t, "ghp_flag", token)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "alice", doc.User)
	assert.Equal(t, "Done", doc.State)
	assert.Equal(t, []string{"Alice A."}, doc.Names)
}

func TestRootCmd_InvalidOutputFlag(t *testing.T) {
	_, _, err := executeRoot(t, newStub(), "alice", "--output", "xml")

	assert.Equal(t, ExitUsage, ExitCodeOf(err))
	assert.ErrorContains(t, err, "unknown output format")
}

func TestRootCmd_FlagParseErrors(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		expectedMsg string
	}{
		{name: "unknown flag", args: []string{"alice", "--bogus"}, expectedMsg: "unknown flag: --bogus"},
		{name: "malformed timeout", args: []string{"alice", "--timeout", "soon"}, expectedMsg: "invalid argument \"soon\""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := executeRoot(t, newStub(), tc.args...)

			require.Error(t, err)
			assert.Equal(t, ExitUsage, ExitCodeOf(err))
			assert.ErrorContains(t, err, tc.expectedMsg)
		})
	}
}

func TestExitCodeOf(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCodeOf(nil))
	assert.Equal(t, ExitFailure, ExitCodeOf(fmt.Errorf("plain")))
	assert.Equal(t, ExitPartial, ExitCodeOf(fmt.Errorf("wrapped: %w", exitError(ExitPartial, "", nil))))
}
