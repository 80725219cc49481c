// Package domain contains the core data structures and domain logic for the application.
package domain

// RepositoryScan holds the commit counts observed while scanning a single repository.
type RepositoryScan struct {
	FullName string `json:"full_name" yaml:"full_name"`
	Commits  int    `json:"commits" yaml:"commits"`
	Matched  int    `json:"matched" yaml:"matched"`
	// Missing is set when the repository disappeared between enumeration and scanning.
	Missing bool `json:"missing,omitempty" yaml:"missing,omitempty"`
}
