package fetch

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/scraper"
)

// MaxReferenceSize is the size threshold above which reference files are
// skipped rather than fetched in full (100 KB).
const MaxReferenceSize = 100 * 1024

// Auxiliary subdirectories probed for the default convention.
const (
	scriptsDir    = "scripts"
	referencesDir = "references"
)

// Via tags which transport produced a fetch result.
type Via string

const (
	ViaAPI         Via = "api"
	ViaRawFallback Via = "rawFallback"
)

// ErrFetchUnavailable means both the API transport and the raw fallback
// failed for a source. Fatal to this source only; no further retries.
var ErrFetchUnavailable = errors.New("fetch unavailable")

// NotFoundError means no candidate path yielded an instruction file.
type NotFoundError struct {
	Attempts int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no instruction file found after %d attempts", e.Attempts)
}

// ReferenceFile is an auxiliary reference document. Files over
// MaxReferenceSize carry no content and are marked skipped.
type ReferenceFile struct {
	Name    string
	Path    string
	Size    int64
	Content string
	Skipped bool
}

// Result carries fetched instruction content plus any associated script and
// reference files. Via records which transport decoded the content; both
// origins carry the same fields.
type Result struct {
	Via        Via
	Path       string
	Content    string
	Scripts    map[string]string
	References []ReferenceFile
}

// RawFetcher is the secondary raw-content transport.
type RawFetcher interface {
	Get(ctx context.Context, owner, repo, branch, path string) (string, error)
}

// Fetcher resolves candidate paths and retrieves instruction content.
type Fetcher struct {
	api scraper.API
	raw RawFetcher
	log *log.Logger
}

// New creates a content fetcher.
func New(api scraper.API, raw RawFetcher, logger *log.Logger) *Fetcher {
	return &Fetcher{api: api, raw: raw, log: logger}
}

// Fetch returns the instruction-file content for a source. Candidate paths
// are tried strictly in order: not-found advances, a transport error triggers
// exactly one raw-fallback attempt for the same path, any other error aborts
// immediately.
func (f *Fetcher) Fetch(ctx context.Context, src models.SkillSource) (*Result, error) {
	attempts := 0

	for _, candidate := range CandidatePaths(src) {
		attempts++

		content, err := f.api.GetFileContent(ctx, src.Owner, src.Repo, candidate, src.Branch)
		if err == nil {
			result := &Result{Via: ViaAPI, Path: candidate, Content: content}
			f.fetchAuxiliary(ctx, src, result)
			return result, nil
		}

		if scraper.IsNotFound(err) {
			continue
		}

		if scraper.IsTransport(err) {
			content, rawErr := f.raw.Get(ctx, src.Owner, src.Repo, src.Branch, candidate)
			if rawErr != nil {
				return nil, fmt.Errorf("%w: api: %v; raw: %v", ErrFetchUnavailable, err, rawErr)
			}
			result := &Result{Via: ViaRawFallback, Path: candidate, Content: content}
			f.fetchAuxiliary(ctx, src, result)
			return result, nil
		}

		return nil, fmt.Errorf("fetch %s/%s/%s: %w", src.Owner, src.Repo, candidate, err)
	}

	return nil, &NotFoundError{Attempts: attempts}
}

// fetchAuxiliary probes the scripts and references subdirectories next to
// the instruction file. Default convention only; absence is not an error.
func (f *Fetcher) fetchAuxiliary(ctx context.Context, src models.SkillSource, result *Result) {
	if src.Convention != models.ConventionSkill {
		return
	}

	base := path.Dir(result.Path)
	if base == "." {
		base = ""
	}

	result.Scripts = f.fetchScripts(ctx, src, joinDir(base, scriptsDir))
	result.References = f.fetchReferences(ctx, src, joinDir(base, referencesDir))
}

func (f *Fetcher) fetchScripts(ctx context.Context, src models.SkillSource, dir string) map[string]string {
	entries, err := f.api.ListDirectory(ctx, src.Owner, src.Repo, dir, src.Branch)
	if err != nil {
		if !scraper.IsNotFound(err) {
			f.log.Errorf("probe %s/%s/%s: %v", src.Owner, src.Repo, dir, err)
		}
		return nil
	}

	scripts := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		content, err := f.api.GetFileContent(ctx, src.Owner, src.Repo, entry.Path, src.Branch)
		if err != nil {
			f.log.Errorf("fetch script %s/%s/%s: %v", src.Owner, src.Repo, entry.Path, err)
			continue
		}
		scripts[entry.Name] = content
	}
	if len(scripts) == 0 {
		return nil
	}
	return scripts
}

func (f *Fetcher) fetchReferences(ctx context.Context, src models.SkillSource, dir string) []ReferenceFile {
	entries, err := f.api.ListDirectory(ctx, src.Owner, src.Repo, dir, src.Branch)
	if err != nil {
		if !scraper.IsNotFound(err) {
			f.log.Errorf("probe %s/%s/%s: %v", src.Owner, src.Repo, dir, err)
		}
		return nil
	}

	var refs []ReferenceFile
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		ref := ReferenceFile{Name: entry.Name, Path: entry.Path, Size: entry.Size}
		if entry.Size > MaxReferenceSize {
			ref.Skipped = true
			refs = append(refs, ref)
			continue
		}
		content, err := f.api.GetFileContent(ctx, src.Owner, src.Repo, entry.Path, src.Branch)
		if err != nil {
			f.log.Errorf("fetch reference %s/%s/%s: %v", src.Owner, src.Repo, entry.Path, err)
			continue
		}
		ref.Content = content
		refs = append(refs, ref)
	}
	return refs
}

func joinDir(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}
