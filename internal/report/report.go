// Package report renders search results for the console.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/commit-name-finder/internal/domain"
)

// Format selects how a result is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats, in the order shown in help text.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of text, json, yaml)", s)
}

// Document is the machine readable form of a result, shared by the json and yaml formats.
type Document struct {
	User         string                  `json:"user" yaml:"user"`
	Profile      *domain.Profile         `json:"profile,omitempty" yaml:"profile,omitempty"`
	State        string                  `json:"state" yaml:"state"`
	Reason       string                  `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message      string                  `json:"message" yaml:"message"`
	Error        string                  `json:"error,omitempty" yaml:"error,omitempty"`
	Count        int                     `json:"count" yaml:"count"`
	Names        []string                `json:"names" yaml:"names"`
	Repositories []domain.RepositoryScan `json:"repositories" yaml:"repositories"`
	Summary      Summary                 `json:"summary" yaml:"summary"`
}

// NewDocument flattens res. Names are sorted so output is stable between runs.
func NewDocument(res *domain.Result) Document {
	doc := Document{
		User:         res.User,
		Profile:      res.Profile,
		State:        res.State.String(),
		Reason:       res.Reason.String(),
		Message:      Message(res),
		Count:        res.Names.Len(),
		Names:        res.Names.Sorted(),
		Repositories: res.Repositories,
		Summary:      Summarize(res.Repositories),
	}
	if res.Err != nil {
		doc.Error = res.Err.Error()
	}
	return doc
}

// Message is the single line telling the user how the run ended.
func Message(res *domain.Result) string {
	count := res.Names.Len()
	switch res.Reason {
	case domain.ReasonUserNotFound:
		return fmt.Sprintf("Could not find repositories for %s", res.User)
	case domain.ReasonRateLimited:
		var rateErr *domain.RateLimitError
		if errors.As(res.Err, &rateErr) && !rateErr.Reset.IsZero() {
			return fmt.Sprintf("The rate limit was exceeded (resets at %s)! Found %d unique names before stopping",
				rateErr.Reset.Local().Format(time.Kitchen), count)
		}
		return fmt.Sprintf("The rate limit was exceeded! Found %d unique names before stopping", count)
	case domain.ReasonCancelled:
		return fmt.Sprintf("The search was cancelled! Found %d unique names before stopping", count)
	case domain.ReasonUnexpected:
		return fmt.Sprintf("An error occurred while searching: %v. Found %d unique names before stopping", res.Err, count)
	}
	return fmt.Sprintf("Name search complete! Found %d unique names", count)
}

// Render writes res to w in the given format.
func Render(w io.Writer, res *domain.Result, format Format) error {
	switch format {
	case FormatJSON:
		jsonData, err := json.MarshalIndent(NewDocument(res), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(res)); err != nil {
			return fmt.Errorf("failed to marshal results to YAML: %w", err)
		}
		return enc.Close()
	default:
		return renderText(w, res)
	}
}

func renderText(w io.Writer, res *domain.Result) error {
	var b strings.Builder
	fmt.Fprintln(&b, Message(res))
	if res.Reason == domain.ReasonUserNotFound {
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, name := range res.Names.Sorted() {
		fmt.Fprintf(&b, "\t%s\n", name)
	}

	if s := Summarize(res.Repositories); s.Repositories > 0 || s.Missing > 0 {
		fmt.Fprintf(&b, "Scanned %d repositories: %d commits, %d authored by %s (per repository: mean %.1f, median %.1f, max %.0f)",
			s.Repositories, s.Commits, s.Matched, displayName(res), s.MatchedMean, s.MatchedMedian, s.MatchedMax)
		if s.Missing > 0 {
			fmt.Fprintf(&b, ", %d skipped", s.Missing)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func displayName(res *domain.Result) string {
	if res.Profile == nil {
		return res.User
	}
	if res.Profile.Name == "" {
		return res.Profile.Login
	}
	return fmt.Sprintf("%s (%s)", res.Profile.Login, res.Profile.Name)
}
