package domain

import (
	"iter"
	"slices"
	"strings"
)

// NameSet accumulates distinct committer display names.
// It only grows; the zero value is not usable, use NewNameSet.
type NameSet struct {
	seen  map[string]struct{}
	order []string
}

// NewNameSet returns an empty set.
func NewNameSet() *NameSet {
	return &NameSet{seen: make(map[string]struct{})}
}

// Add inserts name and reports whether the set grew.
// Blank names are ignored and duplicates are no-ops.
func (s *NameSet) Add(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

// Len returns the number of distinct names.
func (s *NameSet) Len() int {
	return len(s.order)
}

// Contains reports whether name has been added.
func (s *NameSet) Contains(name string) bool {
	_, ok := s.seen[name]
	return ok
}

// All yields the names in insertion order.
func (s *NameSet) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range s.order {
			if !yield(name) {
				return
			}
		}
	}
}

// Sorted returns the names in lexical order.
func (s *NameSet) Sorted() []string {
	names := slices.Clone(s.order)
	if names == nil {
		names = []string{}
	}
	slices.Sort(names)
	return names
}
