package report

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/commit-name-finder/internal/domain"
)

// Summary describes how the scanned repositories contributed to the result.
// The matched-commit figures only cover repositories that were actually scanned.
type Summary struct {
	Repositories  int     `json:"repositories" yaml:"repositories"`
	Missing       int     `json:"missing" yaml:"missing"`
	Commits       int     `json:"commits" yaml:"commits"`
	Matched       int     `json:"matched" yaml:"matched"`
	MatchedMean   float64 `json:"matched_mean" yaml:"matched_mean"`
	MatchedMedian float64 `json:"matched_median" yaml:"matched_median"`
	MatchedMax    float64 `json:"matched_max" yaml:"matched_max"`
}

// Summarize computes the summary of scans.
func Summarize(scans []domain.RepositoryScan) Summary {
	var s Summary
	var matched stats.Float64Data
	for _, scan := range scans {
		if scan.Missing {
			s.Missing++
			continue
		}
		s.Repositories++
		s.Commits += scan.Commits
		s.Matched += scan.Matched
		matched = append(matched, float64(scan.Matched))
	}
	if len(matched) == 0 {
		return s
	}

	// The stats functions only fail on empty input, which is ruled out above.
	s.MatchedMean, _ = stats.Mean(matched)
	s.MatchedMedian, _ = stats.Median(matched)
	s.MatchedMax, _ = stats.Max(matched)
	return s
}
