package discovery

import (
	"context"
	"time"

	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/scraper"
)

// inactivityCutoff is how long a fork may sit unpushed before raw
// enumeration drops it.
const inactivityCutoff = 365 * 24 * time.Hour

// ForkTraverser enumerates fork networks of seed repositories.
type ForkTraverser struct {
	api scraper.API
	log *log.Logger
	now func() time.Time
}

// NewForkTraverser creates the fork/network strategy.
func NewForkTraverser(api scraper.API, logger *log.Logger) *ForkTraverser {
	return &ForkTraverser{api: api, log: logger, now: time.Now}
}

// Forks returns the raw fork list of a repository, minus forks inactive for
// over a year. Archived forks stay in this list; policy filters against them
// belong to consumption stages, not raw enumeration.
func (f *ForkTraverser) Forks(ctx context.Context, owner, repo string) ([]*scraper.RepoInfo, error) {
	all, err := f.api.ListForks(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	cutoff := f.now().Add(-inactivityCutoff)
	active := make([]*scraper.RepoInfo, 0, len(all))
	for _, fork := range all {
		if fork.PushedAt.Before(cutoff) {
			continue
		}
		active = append(active, fork)
	}
	return active, nil
}

// Network returns the root repository followed by its active forks.
func (f *ForkTraverser) Network(ctx context.Context, owner, repo string) ([]*scraper.RepoInfo, error) {
	root, err := f.api.GetRepositoryInfo(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	forks, err := f.Forks(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	return append([]*scraper.RepoInfo{root}, forks...), nil
}

// Discover walks each seed's network and nominates its repositories as
// candidates. Archived repositories are dropped here, at the consumption
// stage. A seed whose network cannot be fetched is logged and skipped.
func (f *ForkTraverser) Discover(ctx context.Context, seeds []models.RepoCandidate) []models.RepoCandidate {
	seen := make(map[string]struct{})
	var candidates []models.RepoCandidate

	for _, seed := range seeds {
		network, err := f.Network(ctx, seed.Owner, seed.Repo)
		if err != nil {
			f.log.Errorf("fork-network: %s: %v", seed.RepoName(), err)
			continue
		}
		for _, repo := range network {
			if repo.Archived {
				continue
			}
			c := models.RepoCandidate{
				Owner:         repo.Owner,
				Repo:          repo.Repo,
				StarCount:     repo.Stars,
				DiscoveredVia: "fork-network",
			}
			if _, ok := seen[c.Key()]; ok {
				continue
			}
			seen[c.Key()] = struct{}{}
			candidates = append(candidates, c)
		}
	}
	return candidates
}
