package discovery

import (
	"context"

	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/scraper"
)

// DefaultTopicQueries are the search queries paginated on every run.
var DefaultTopicQueries = []string{
	"topic:claude-skills",
	"topic:agent-skills",
	"topic:cursorrules",
	"\"SKILL.md\" in:readme",
}

// TopicSearcher paginates repository search queries into candidates.
type TopicSearcher struct {
	api      scraper.API
	queries  []string
	maxPages int
	log      *log.Logger
}

// NewTopicSearcher creates the topic-search strategy. A nil query set uses
// the defaults; maxPages <= 0 means a single page per query.
func NewTopicSearcher(api scraper.API, queries []string, maxPages int, logger *log.Logger) *TopicSearcher {
	if len(queries) == 0 {
		queries = DefaultTopicQueries
	}
	if maxPages <= 0 {
		maxPages = 1
	}
	return &TopicSearcher{api: api, queries: queries, maxPages: maxPages, log: logger}
}

// Discover walks each query page by page until a page comes back empty or
// short of a full page, capped at maxPages. A failed page is logged and ends
// that query only.
func (t *TopicSearcher) Discover(ctx context.Context) []models.RepoCandidate {
	seen := make(map[string]struct{})
	var candidates []models.RepoCandidate

	for _, query := range t.queries {
		for page := 1; page <= t.maxPages; page++ {
			repos, err := t.api.SearchRepositories(ctx, query, page)
			if err != nil {
				t.log.Errorf("topic-search: %q page %d: %v", query, page, err)
				break
			}
			if len(repos) == 0 {
				break
			}

			for _, repo := range repos {
				c := models.RepoCandidate{
					Owner:         repo.Owner,
					Repo:          repo.Repo,
					StarCount:     repo.Stars,
					DiscoveredVia: "topic-search",
				}
				if _, ok := seen[c.Key()]; ok {
					continue
				}
				seen[c.Key()] = struct{}{}
				candidates = append(candidates, c)
			}

			// A short page means the result stream is exhausted.
			if len(repos) < scraper.SearchPageSize() {
				break
			}
		}
	}
	return candidates
}
