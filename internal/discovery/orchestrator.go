package discovery

import (
	"context"
	"sort"
	"time"

	"github.com/skillscout/skillscout/internal/config"
	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/scraper"
)

// StrategyStats reports one strategy's contribution to a discovery run.
type StrategyStats struct {
	Name    string
	Found   int
	Elapsed time.Duration
}

// Orchestrator runs the discovery strategies in a fixed sequential order and
// merges their output. Sequential execution keeps token consumption
// predictable and makes dedup a single map.
type Orchestrator struct {
	lists  *ListMiner
	topics *TopicSearcher
	forks  *ForkTraverser

	minSeedStars int
	maxForkSeeds int
	log          *log.Logger
}

// NewOrchestrator wires the strategies onto a shared API facade.
func NewOrchestrator(api scraper.API, cfg config.GitHubConfig, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		lists:        NewListMiner(api, nil, logger),
		topics:       NewTopicSearcher(api, nil, cfg.MaxSearchPages, logger),
		forks:        NewForkTraverser(api, logger),
		minSeedStars: cfg.MinSeedStars,
		maxForkSeeds: cfg.MaxForkSeeds,
		log:          logger,
	}
}

// Run executes list-mining, topic search, then fork/network seeded from the
// highest-starred candidates found so far. Candidates are deduplicated by
// case-folded owner/repo, first-discovered wins. A strategy failure or panic
// is logged and treated as that strategy yielding nothing further.
func (o *Orchestrator) Run(ctx context.Context) ([]models.RepoCandidate, []StrategyStats) {
	seen := make(map[string]struct{})
	var merged []models.RepoCandidate
	var stats []StrategyStats

	admit := func(found []models.RepoCandidate) int {
		added := 0
		for _, c := range found {
			if _, ok := seen[c.Key()]; ok {
				continue
			}
			seen[c.Key()] = struct{}{}
			merged = append(merged, c)
			added++
		}
		return added
	}

	run := func(name string, strategy func(context.Context) []models.RepoCandidate) {
		start := time.Now()
		added := admit(o.runSafely(ctx, name, strategy))
		stats = append(stats, StrategyStats{Name: name, Found: added, Elapsed: time.Since(start)})
		o.log.Printf("discovery: %s found %d new candidates\n", name, added)
	}

	run("list-mining", o.lists.Discover)
	run("topic-search", o.topics.Discover)
	run("fork-network", func(ctx context.Context) []models.RepoCandidate {
		return o.forks.Discover(ctx, o.seedRepos(merged))
	})

	return merged, stats
}

// runSafely contains a strategy's panic at the orchestrator boundary.
func (o *Orchestrator) runSafely(ctx context.Context, name string, strategy func(context.Context) []models.RepoCandidate) (found []models.RepoCandidate) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Errorf("discovery: %s panicked: %v", name, r)
			found = nil
		}
	}()
	return strategy(ctx)
}

// seedRepos picks the highest-starred candidates above the star threshold,
// capped at maxForkSeeds.
func (o *Orchestrator) seedRepos(candidates []models.RepoCandidate) []models.RepoCandidate {
	seeds := make([]models.RepoCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.StarCount >= o.minSeedStars {
			seeds = append(seeds, c)
		}
	}
	sort.SliceStable(seeds, func(i, j int) bool {
		return seeds[i].StarCount > seeds[j].StarCount
	})
	if len(seeds) > o.maxForkSeeds {
		seeds = seeds[:o.maxForkSeeds]
	}
	return seeds
}
