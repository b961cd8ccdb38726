package models

import "strings"

// SkillSource identifies where to look for a skill's instruction file.
type SkillSource struct {
	Owner      string
	Repo       string
	Path       string
	Branch     string
	Convention LayoutConvention
}

// RepoName returns the owner/repo pair.
func (s SkillSource) RepoName() string {
	return s.Owner + "/" + s.Repo
}

// RepoCandidate is a repository nominated by a discovery strategy.
type RepoCandidate struct {
	Owner         string
	Repo          string
	StarCount     int
	DiscoveredVia string
}

// Key returns the case-folded owner/repo uniqueness key used for
// cross-strategy deduplication.
func (c RepoCandidate) Key() string {
	return strings.ToLower(c.Owner + "/" + c.Repo)
}

// RepoName returns the owner/repo pair.
func (c RepoCandidate) RepoName() string {
	return c.Owner + "/" + c.Repo
}
