package domain

import "strings"

// Identity is the user whose authored commits are searched for.
type Identity struct {
	Username string
	// Token is an optional credential. It switches the client from anonymous to authenticated requests.
	Token string
}

// Authenticated reports whether requests are made with a token.
func (i Identity) Authenticated() bool {
	return i.Token != ""
}

// Matches reports whether login refers to this identity.
// GitHub logins are case-insensitive, so the comparison is too.
// An empty login never matches.
func (i Identity) Matches(login string) bool {
	if login == "" {
		return false
	}
	return strings.EqualFold(login, i.Username)
}

// Repository is a repository owned by the target user.
type Repository struct {
	ID       int64
	Owner    string
	Name     string
	FullName string
	Fork     bool
}

// Commit is the subset of a commit's metadata the scan cares about.
// Absent values are empty strings.
type Commit struct {
	SHA           string
	AuthorLogin   string
	CommitterName string
}

// ScanConfig is fixed for the duration of a run.
type ScanConfig struct {
	Identity     Identity
	IncludeForks bool
}

// Profile is the public profile of the target user.
type Profile struct {
	Login string `json:"login" yaml:"login"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}
