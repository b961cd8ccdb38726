package discovery

import (
	"context"

	"github.com/skillscout/skillscout/internal/fetch"
	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/scraper"
)

// DeepScanner probes repositories for instruction files at every layout
// convention's candidate paths.
type DeepScanner struct {
	api scraper.API
	log *log.Logger
}

// NewDeepScanner creates the deep-scan strategy.
func NewDeepScanner(api scraper.API, logger *log.Logger) *DeepScanner {
	return &DeepScanner{api: api, log: logger}
}

// Scan probes each repository and returns a source for every instruction
// file found. A repository that cannot be probed is logged and skipped.
func (d *DeepScanner) Scan(ctx context.Context, repos []models.RepoCandidate) []models.SkillSource {
	var sources []models.SkillSource
	for _, repo := range repos {
		found, err := d.scanRepo(ctx, repo)
		if err != nil {
			d.log.Errorf("deep-scan: %s: %v", repo.RepoName(), err)
			continue
		}
		sources = append(sources, found...)
	}
	return sources
}

func (d *DeepScanner) scanRepo(ctx context.Context, repo models.RepoCandidate) ([]models.SkillSource, error) {
	info, err := d.api.GetRepositoryInfo(ctx, repo.Owner, repo.Repo)
	if err != nil {
		return nil, err
	}
	branch := info.DefaultBranch

	var sources []models.SkillSource

	// Single-file conventions and a root-level skill file.
	for _, convention := range models.AllConventions() {
		src := models.SkillSource{
			Owner:      repo.Owner,
			Repo:       repo.Repo,
			Branch:     branch,
			Convention: convention,
		}
		if d.probe(ctx, src) {
			sources = append(sources, src)
		}
	}

	// Skill directories nested under the well-known roots.
	for _, root := range fetch.SkillRoots() {
		entries, err := d.api.ListDirectory(ctx, repo.Owner, repo.Repo, root, branch)
		if err != nil {
			if scraper.IsNotFound(err) {
				continue
			}
			d.log.Errorf("deep-scan: %s/%s: %v", repo.RepoName(), root, err)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir {
				continue
			}
			src := models.SkillSource{
				Owner:      repo.Owner,
				Repo:       repo.Repo,
				Path:       entry.Path,
				Branch:     branch,
				Convention: models.ConventionSkill,
			}
			if d.probe(ctx, src) {
				sources = append(sources, src)
			}
		}
	}
	return sources, nil
}

// probe reports whether any candidate path of the source resolves to a file.
func (d *DeepScanner) probe(ctx context.Context, src models.SkillSource) bool {
	for _, path := range fetch.CandidatePaths(src) {
		_, err := d.api.GetFileContent(ctx, src.Owner, src.Repo, path, src.Branch)
		if err == nil {
			return true
		}
		if !scraper.IsNotFound(err) {
			d.log.Errorf("deep-scan: probe %s/%s: %v", src.RepoName(), path, err)
			return false
		}
	}
	return false
}
