// Package report renders the watched list as a Markdown document.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/marco/popcorn/internal/movie"
)

// frontmatter is the YAML header of a report.
type frontmatter struct {
	Title         string   `yaml:"title"`
	GeneratedAt   string   `yaml:"generatedAt"`
	Count         int      `yaml:"count"`
	AvgIMDbRating string   `yaml:"avgImdbRating"`
	AvgUserRating string   `yaml:"avgUserRating"`
	AvgRuntime    string   `yaml:"avgRuntime"`
	Movies        []string `yaml:"movies"`
}

// Writer renders and writes watched-list reports.
type Writer struct {
	fs  afero.Fs
	now func() time.Time
}

// NewWriter creates a Writer on fs.
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs, now: time.Now}
}

// WriteFile renders the report and writes it to path.
func (w *Writer) WriteFile(path string, entries []movie.WatchedEntry, stats movie.Statistics) error {
	content, err := w.Generate(entries, stats)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := afero.WriteFile(w.fs, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// Generate creates the report: a YAML frontmatter with the summary followed
// by one section per watched movie.
func (w *Writer) Generate(entries []movie.WatchedEntry, stats movie.Statistics) (string, error) {
	var sb strings.Builder

	fm := frontmatter{
		Title:         "Movies you watched",
		GeneratedAt:   w.now().UTC().Format(time.RFC3339),
		Count:         stats.Count,
		AvgIMDbRating: fmt.Sprintf("%.2f", stats.AvgIMDbRating),
		AvgUserRating: fmt.Sprintf("%.2f", stats.AvgUserRating),
		AvgRuntime:    fmt.Sprintf("%.2f", stats.AvgRuntime),
		Movies:        make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		fm.Movies = append(fm.Movies, e.MovieID)
	}

	var docNode yaml.Node
	if err := docNode.Encode(fm); err != nil {
		return "", fmt.Errorf("failed to marshal report summary: %w", err)
	}
	forceQuotedFields(&docNode, "avgImdbRating", "avgUserRating", "avgRuntime")
	yamlData, err := yaml.Marshal(&docNode)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report summary: %w", err)
	}

	sb.WriteString("---\n")
	sb.Write(yamlData)
	sb.WriteString("---\n\n")

	sb.WriteString("# Movies you watched\n\n")
	fmt.Fprintf(&sb, "%d %s, %s IMDb, %s yours, %s min on average\n",
		stats.Count, plural(stats.Count, "movie", "movies"),
		fm.AvgIMDbRating, fm.AvgUserRating, fm.AvgRuntime)

	for _, e := range entries {
		sb.WriteString("\n")
		writeEntry(&sb, e)
	}

	return sb.String(), nil
}

func writeEntry(sb *strings.Builder, e movie.WatchedEntry) {
	fmt.Fprintf(sb, "## %s", e.Title)
	if e.Year != "" {
		fmt.Fprintf(sb, " (%s)", e.Year)
	}
	sb.WriteString("\n\n")

	if e.PosterURL != "" {
		fmt.Fprintf(sb, "![%s](%s)\n\n", e.Title, e.PosterURL)
	}

	if e.IMDbRating > 0 {
		fmt.Fprintf(sb, "- **IMDb rating**: %.1f/10\n", e.IMDbRating)
	}
	fmt.Fprintf(sb, "- **Your rating**: %d/10\n", e.UserRating)
	if e.RuntimeMinutes > 0 {
		fmt.Fprintf(sb, "- **Runtime**: %d minutes\n", e.RuntimeMinutes)
	}
	if e.RatingAdjustments > 0 {
		fmt.Fprintf(sb, "- **Rating changes**: %d\n", e.RatingAdjustments)
	}
	fmt.Fprintf(sb, "- [View on IMDb](https://www.imdb.com/title/%s)\n", e.MovieID)
}

// forceQuotedFields sets DoubleQuotedStyle on the named scalar fields of the
// top-level mapping, so two-decimal averages stay strings for YAML readers.
func forceQuotedFields(doc *yaml.Node, keys ...string) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return
	}
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if keySet[mapping.Content[i].Value] {
			mapping.Content[i+1].Style = yaml.DoubleQuotedStyle
		}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
