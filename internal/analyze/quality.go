package analyze

import (
	"math"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/skillscout/skillscout/internal/scraper"
)

// QualityScore aggregates documentation completeness, maintenance signals
// and popularity into one composite score plus its components. All values
// are 0-100.
type QualityScore struct {
	Total       float64
	Docs        float64
	Maintenance float64
	Popularity  float64
}

// Component weights for the composite score.
const (
	weightDocs        = 0.4
	weightMaintenance = 0.3
	weightPopularity  = 0.3
)

// ComputeQuality scores a skill from its metadata, content and repository
// signals. A nil repo zeroes the maintenance and popularity components.
func ComputeQuality(meta Metadata, content string, repo *scraper.RepoInfo) QualityScore {
	q := QualityScore{Docs: docsScore(meta, content)}
	if repo != nil {
		q.Maintenance = maintenanceScore(repo.PushedAt, time.Now())
		q.Popularity = popularityScore(repo.Stars)
	}
	q.Total = weightDocs*q.Docs + weightMaintenance*q.Maintenance + weightPopularity*q.Popularity
	return q
}

func docsScore(meta Metadata, content string) float64 {
	score := 0.0

	if len(meta.Description) >= 20 {
		score += 30
	} else if meta.Description != "" {
		score += 15
	}
	if strings.Count(content, "\n#") >= 2 {
		score += 20
	}
	if strings.Contains(content, "```") {
		score += 20
	}
	if len(content) >= 500 {
		score += 15
	}
	if meta.Version != "" {
		if _, err := semver.NewVersion(meta.Version); err == nil {
			score += 15
		}
	}
	return score
}

func maintenanceScore(pushedAt, now time.Time) float64 {
	if pushedAt.IsZero() {
		return 0
	}
	age := now.Sub(pushedAt)
	switch {
	case age <= 30*24*time.Hour:
		return 100
	case age <= 90*24*time.Hour:
		return 75
	case age <= 180*24*time.Hour:
		return 50
	case age <= 365*24*time.Hour:
		return 25
	default:
		return 0
	}
}

func popularityScore(stars int) float64 {
	if stars <= 0 {
		return 0
	}
	return math.Min(100, 25*math.Log10(float64(stars)+1))
}
