package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/scraper"
)

// fakeAPI serves canned file contents and directory listings, recording the
// order of content requests.
type fakeAPI struct {
	files     map[string]string
	dirs      map[string][]scraper.DirEntry
	errs      map[string]error
	requested []string
}

func (f *fakeAPI) GetFileContent(_ context.Context, _, _, path, _ string) (string, error) {
	f.requested = append(f.requested, path)
	if err, ok := f.errs[path]; ok {
		return "", err
	}
	if content, ok := f.files[path]; ok {
		return content, nil
	}
	return "", fmt.Errorf("get contents %s: %w", path, scraper.ErrNotFound)
}

func (f *fakeAPI) ListDirectory(_ context.Context, _, _, dir, _ string) ([]scraper.DirEntry, error) {
	if entries, ok := f.dirs[dir]; ok {
		return entries, nil
	}
	return nil, fmt.Errorf("list %s: %w", dir, scraper.ErrNotFound)
}

func (f *fakeAPI) GetRepositoryInfo(context.Context, string, string) (*scraper.RepoInfo, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) ListForks(context.Context, string, string) ([]*scraper.RepoInfo, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) SearchRepositories(context.Context, string, int) ([]*scraper.RepoInfo, error) {
	return nil, errors.New("not implemented")
}

type fakeRaw struct {
	content string
	err     error
	calls   int
}

func (f *fakeRaw) Get(context.Context, string, string, string, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func newTestFetcher(api *fakeAPI, raw *fakeRaw) *Fetcher {
	if raw == nil {
		raw = &fakeRaw{err: errors.New("raw unavailable")}
	}
	return New(api, raw, log.NewConsole(io.Discard))
}

func skillSource(path string) models.SkillSource {
	return models.SkillSource{
		Owner:      "anthropics",
		Repo:       "skills",
		Path:       path,
		Branch:     "main",
		Convention: models.ConventionSkill,
	}
}

func TestFetchTriesCandidatesInOrder(t *testing.T) {
	api := &fakeAPI{files: map[string]string{
		".claude/skills/pdf/SKILL.md": "# PDF",
	}}

	result, err := newTestFetcher(api, nil).Fetch(context.Background(), skillSource("pdf"))
	require.NoError(t, err)

	assert.Equal(t, ViaAPI, result.Via)
	assert.Equal(t, ".claude/skills/pdf/SKILL.md", result.Path)
	assert.Equal(t, "# PDF", result.Content)
	assert.Equal(t, []string{
		"pdf/SKILL.md",
		"skills/pdf/SKILL.md",
		".claude/skills/pdf/SKILL.md",
	}, api.requested)
}

func TestFetchNotFoundCountsAttempts(t *testing.T) {
	api := &fakeAPI{}

	_, err := newTestFetcher(api, nil).Fetch(context.Background(), skillSource("pdf"))
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 4, notFound.Attempts)
}

func TestFetchAbortsOnNonNotFoundError(t *testing.T) {
	boom := errors.New("403 forbidden")
	api := &fakeAPI{
		errs:  map[string]error{"skills/pdf/SKILL.md": boom},
		files: map[string]string{".claude/skills/pdf/SKILL.md": "never reached"},
	}

	_, err := newTestFetcher(api, nil).Fetch(context.Background(), skillSource("pdf"))
	require.ErrorIs(t, err, boom)
	// The fetcher stopped at the failing candidate.
	assert.Equal(t, []string{"pdf/SKILL.md", "skills/pdf/SKILL.md"}, api.requested)
}

func TestFetchTransportErrorFallsBackToRawOnce(t *testing.T) {
	api := &fakeAPI{errs: map[string]error{
		"pdf/SKILL.md": &scraper.TransportError{Op: "get", Err: errors.New("timeout")},
	}}
	raw := &fakeRaw{content: "# PDF via raw"}

	result, err := newTestFetcher(api, raw).Fetch(context.Background(), skillSource("pdf"))
	require.NoError(t, err)

	assert.Equal(t, ViaRawFallback, result.Via)
	assert.Equal(t, "# PDF via raw", result.Content)
	assert.Equal(t, 1, raw.calls)
	// The fallback served the same path; no further candidates tried.
	assert.Equal(t, []string{"pdf/SKILL.md"}, api.requested)
}

func TestFetchUnavailableWhenRawAlsoFails(t *testing.T) {
	api := &fakeAPI{errs: map[string]error{
		"pdf/SKILL.md": &scraper.TransportError{Op: "get", Err: errors.New("timeout")},
	}}
	raw := &fakeRaw{err: errors.New("connection refused")}

	_, err := newTestFetcher(api, raw).Fetch(context.Background(), skillSource("pdf"))
	require.ErrorIs(t, err, ErrFetchUnavailable)
	assert.Equal(t, 1, raw.calls)
}

func TestFetchAuxiliaryScriptsAndReferences(t *testing.T) {
	api := &fakeAPI{
		files: map[string]string{
			"pdf/SKILL.md":            "# PDF",
			"pdf/scripts/extract.py":  "print('hi')",
			"pdf/references/small.md": "small doc",
		},
		dirs: map[string][]scraper.DirEntry{
			"pdf/scripts": {
				{Name: "extract.py", Path: "pdf/scripts/extract.py", Size: 20},
				{Name: "vendor", Path: "pdf/scripts/vendor", IsDir: true},
			},
			"pdf/references": {
				{Name: "small.md", Path: "pdf/references/small.md", Size: 9},
				{Name: "huge.md", Path: "pdf/references/huge.md", Size: MaxReferenceSize + 1},
			},
		},
	}

	result, err := newTestFetcher(api, nil).Fetch(context.Background(), skillSource("pdf"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"extract.py": "print('hi')"}, result.Scripts)

	require.Len(t, result.References, 2)
	assert.Equal(t, "small doc", result.References[0].Content)
	assert.False(t, result.References[0].Skipped)
	assert.True(t, result.References[1].Skipped)
	assert.Empty(t, result.References[1].Content)
}

func TestFetchNoAuxiliaryForNonDefaultConvention(t *testing.T) {
	api := &fakeAPI{files: map[string]string{".cursorrules": "rules"}}

	result, err := newTestFetcher(api, nil).Fetch(context.Background(), models.SkillSource{
		Owner: "o", Repo: "r", Convention: models.ConventionCursorRules,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Scripts)
	assert.Nil(t, result.References)
}

func TestFetchAuxiliaryAbsenceIsNotAnError(t *testing.T) {
	api := &fakeAPI{files: map[string]string{"pdf/SKILL.md": "# PDF"}}

	result, err := newTestFetcher(api, nil).Fetch(context.Background(), skillSource("pdf"))
	require.NoError(t, err)
	assert.Nil(t, result.Scripts)
	assert.Nil(t, result.References)
}
