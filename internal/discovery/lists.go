// Package discovery nominates repositories that may contain skills. Four
// strategies feed a sequential orchestrator that deduplicates their output.
package discovery

import (
	"context"
	"regexp"
	"strings"

	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/scraper"
)

// CuratedList identifies a community-maintained list repository to mine for
// repo links.
type CuratedList struct {
	Owner string
	Repo  string
	Path  string
}

// DefaultCuratedLists are the known curated lists mined on every run.
var DefaultCuratedLists = []CuratedList{
	{Owner: "anthropics", Repo: "skills", Path: "README.md"},
	{Owner: "hesreallyhim", Repo: "awesome-claude-code", Path: "README.md"},
	{Owner: "vijaythecoder", Repo: "awesome-claude-agents", Path: "README.md"},
	{Owner: "PatrickJS", Repo: "awesome-cursorrules", Path: "README.md"},
}

// repoLinkPattern matches owner/repo pairs out of markdown link targets.
var repoLinkPattern = regexp.MustCompile(`github\.com/([A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)/([A-Za-z0-9._-]+)`)

// ListMiner extracts repository candidates from curated list content.
type ListMiner struct {
	api   scraper.API
	lists []CuratedList
	log   *log.Logger
}

// NewListMiner creates the list-mining strategy. A nil list set uses the
// defaults.
func NewListMiner(api scraper.API, lists []CuratedList, logger *log.Logger) *ListMiner {
	if len(lists) == 0 {
		lists = DefaultCuratedLists
	}
	return &ListMiner{api: api, lists: lists, log: logger}
}

// Discover fetches every curated list and parses repo links out of its
// content. A list that cannot be fetched is logged and skipped.
func (m *ListMiner) Discover(ctx context.Context) []models.RepoCandidate {
	seen := make(map[string]struct{})
	var candidates []models.RepoCandidate

	for _, list := range m.lists {
		content, err := m.api.GetFileContent(ctx, list.Owner, list.Repo, list.Path, "")
		if err != nil {
			m.log.Errorf("list-mining: %s/%s: %v", list.Owner, list.Repo, err)
			continue
		}

		for _, c := range ExtractRepoLinks(content) {
			// The list repo links to itself in badges and anchors.
			if strings.EqualFold(c.Owner, list.Owner) && strings.EqualFold(c.Repo, list.Repo) {
				continue
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

// ExtractRepoLinks parses owner/repo references out of markdown content.
func ExtractRepoLinks(content string) []models.RepoCandidate {
	matches := repoLinkPattern.FindAllStringSubmatch(content, -1)
	candidates := make([]models.RepoCandidate, 0, len(matches))
	for _, m := range matches {
		repo := strings.TrimSuffix(m[2], ".git")
		repo = strings.TrimSuffix(repo, ".")
		if repo == "" {
			continue
		}
		candidates = append(candidates, models.RepoCandidate{
			Owner:         m[1],
			Repo:          repo,
			DiscoveredVia: "list-mining",
		})
	}
	return candidates
}
