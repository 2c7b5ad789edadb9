package report

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/marco/popcorn/internal/movie"
)

func sampleEntries() []movie.WatchedEntry {
	return []movie.WatchedEntry{
		{MovieID: "tt0133093", Title: "The Matrix", Year: "1999", PosterURL: "https://img/matrix.jpg", IMDbRating: 8.7, RuntimeMinutes: 136, UserRating: 9, RatingAdjustments: 2},
		{MovieID: "tt0062622", Title: "2001: A Space Odyssey", Year: "1968", IMDbRating: 8.3, RuntimeMinutes: 149, UserRating: 8},
	}
}

func newTestWriter(fs afero.Fs) *Writer {
	w := NewWriter(fs)
	w.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return w
}

func splitFrontmatter(t *testing.T, content string) (frontmatter, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(content, "---\n"))
	rest := strings.TrimPrefix(content, "---\n")
	end := strings.Index(rest, "---\n")
	require.GreaterOrEqual(t, end, 0, "frontmatter must be closed")

	var fm frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(rest[:end]), &fm))
	return fm, rest[end+len("---\n"):]
}

func TestGenerate_Frontmatter(t *testing.T) {
	entries := sampleEntries()
	w := newTestWriter(afero.NewMemMapFs())

	content, err := w.Generate(entries, movie.Summarize(entries))

	require.NoError(t, err)
	fm, _ := splitFrontmatter(t, content)
	assert.Equal(t, 2, fm.Count)
	assert.Equal(t, "8.50", fm.AvgIMDbRating)
	assert.Equal(t, "8.50", fm.AvgUserRating)
	assert.Equal(t, "142.50", fm.AvgRuntime)
	assert.Equal(t, "2024-05-01T12:00:00Z", fm.GeneratedAt)
	assert.Equal(t, []string{"tt0133093", "tt0062622"}, fm.Movies)
}

func TestGenerate_Body(t *testing.T) {
	entries := sampleEntries()
	w := newTestWriter(afero.NewMemMapFs())

	content, err := w.Generate(entries, movie.Summarize(entries))

	require.NoError(t, err)
	_, body := splitFrontmatter(t, content)
	assert.Contains(t, body, "2 movies, 8.50 IMDb, 8.50 yours, 142.50 min on average")
	assert.Contains(t, body, "## The Matrix (1999)")
	assert.Contains(t, body, "![The Matrix](https://img/matrix.jpg)")
	assert.Contains(t, body, "- **Your rating**: 9/10")
	assert.Contains(t, body, "- **Rating changes**: 2")
	assert.Contains(t, body, "## 2001: A Space Odyssey (1968)")
	assert.Contains(t, body, "https://www.imdb.com/title/tt0062622")
}

func TestGenerate_EmptyList(t *testing.T) {
	w := newTestWriter(afero.NewMemMapFs())

	content, err := w.Generate(nil, movie.Summarize(nil))

	require.NoError(t, err)
	fm, body := splitFrontmatter(t, content)
	assert.Zero(t, fm.Count)
	assert.Equal(t, "0.00", fm.AvgRuntime)
	assert.Empty(t, fm.Movies)
	assert.NotContains(t, body, "## ")
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs)
	entries := sampleEntries()

	require.NoError(t, w.WriteFile("/reports/watched.md", entries, movie.Summarize(entries)))

	data, err := afero.ReadFile(fs, "/reports/watched.md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "## The Matrix (1999)")
}
