// Package models defines the core data structures for skillscout.
package models

import (
	"fmt"
	"time"
)

// LayoutConvention identifies where a skill's instruction file lives in a
// repository.
type LayoutConvention string

const (
	// ConventionSkill is the default layout: SKILL.md inside a skill
	// directory, possibly nested under a well-known skills root.
	ConventionSkill LayoutConvention = "skill"
	// ConventionCursorRules is a single .cursorrules file at the repo root.
	ConventionCursorRules LayoutConvention = "cursorrules"
	// ConventionAgents is a single AGENTS.md file at the repo root.
	ConventionAgents LayoutConvention = "agents"
	// ConventionCopilot is copilot-instructions.md under .github/.
	ConventionCopilot LayoutConvention = "copilot"
	// ConventionClaude is CLAUDE.md, either inside the skill path or at the
	// repo root.
	ConventionClaude LayoutConvention = "claude"
)

// AllConventions returns every recognized layout convention.
func AllConventions() []LayoutConvention {
	return []LayoutConvention{
		ConventionSkill,
		ConventionCursorRules,
		ConventionAgents,
		ConventionCopilot,
		ConventionClaude,
	}
}

// IsValid checks if the convention is a known value.
func (c LayoutConvention) IsValid() bool {
	switch c {
	case ConventionSkill, ConventionCursorRules, ConventionAgents,
		ConventionCopilot, ConventionClaude:
		return true
	}
	return false
}

// IDSuffix returns the identity tag appended to skill IDs for non-default
// conventions. The default convention has no suffix.
func (c LayoutConvention) IDSuffix() string {
	if c == ConventionSkill {
		return ""
	}
	return "~" + string(c)
}

// SkillID derives the globally unique record identifier. It is stable across
// re-indexing as long as the skill name does not change.
func SkillID(owner, repo, name string, convention LayoutConvention) string {
	return fmt.Sprintf("%s/%s/%s%s", owner, repo, name, convention.IDSuffix())
}

// SecurityStatus is the coarse classification produced by the security
// heuristic. The empty value means the record has not been scored yet.
type SecurityStatus string

const (
	SecurityStatusNone    SecurityStatus = ""
	SecurityStatusPass    SecurityStatus = "pass"
	SecurityStatusWarning SecurityStatus = "warning"
	SecurityStatusFail    SecurityStatus = "fail"
)

// IsValid checks if the status is a known value.
func (s SecurityStatus) IsValid() bool {
	switch s {
	case SecurityStatusNone, SecurityStatusPass, SecurityStatusWarning, SecurityStatusFail:
		return true
	}
	return false
}

// ReviewStatus records how a security verdict was reached.
type ReviewStatus string

const (
	ReviewStatusNone   ReviewStatus = ""
	ReviewStatusAuto   ReviewStatus = "auto"
	ReviewStatusManual ReviewStatus = "manual"
)

// SkillRecord is the persisted form of an indexed skill. It is owned by the
// primary store and mutated only by the indexing orchestrator (and the batch
// rescan job, for security fields).
type SkillRecord struct {
	ID string `gorm:"primaryKey;size:512" json:"id"`

	Name        string `gorm:"size:255;index" json:"name"`
	Description string `gorm:"size:1000" json:"description"`
	Content     string `gorm:"type:text" json:"content"`

	// Source location
	Owner      string           `gorm:"size:255;index:idx_owner_repo" json:"owner"`
	Repo       string           `gorm:"size:255;index:idx_owner_repo" json:"repo"`
	Path       string           `gorm:"size:500" json:"path"`
	Branch     string           `gorm:"size:255" json:"branch"`
	Convention LayoutConvention `gorm:"size:32;index" json:"convention"`

	// Change detection
	ContentFingerprint string `gorm:"size:64" json:"content_fingerprint"`

	// Security
	SecurityScore  int            `gorm:"default:0" json:"security_score"`
	SecurityStatus SecurityStatus `gorm:"size:20;index" json:"security_status"`
	ReviewStatus   ReviewStatus   `gorm:"size:20" json:"review_status"`

	// Quality
	QualityScore     float64 `gorm:"default:0" json:"quality_score"`
	DocsScore        float64 `gorm:"default:0" json:"docs_score"`
	MaintenanceScore float64 `gorm:"default:0" json:"maintenance_score"`
	PopularityScore  float64 `gorm:"default:0" json:"popularity_score"`

	// Moderation flags. Retirement is logical: records are never deleted by
	// the pipeline, downstream consumers filter on these.
	IsBlocked   bool `gorm:"default:false;index" json:"is_blocked"`
	IsDuplicate bool `gorm:"default:false;index" json:"is_duplicate"`

	// Popularity signals from the source repository
	StarCount int `gorm:"default:0;index" json:"star_count"`
	ForkCount int `gorm:"default:0" json:"fork_count"`

	Categories []Category `gorm:"many2many:skill_categories" json:"categories,omitempty"`

	IndexedAt time.Time `json:"indexed_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (SkillRecord) TableName() string {
	return "skills"
}

// BrowseReady reports whether the record is eligible for downstream listing.
func (s *SkillRecord) BrowseReady() bool {
	return !s.IsBlocked && !s.IsDuplicate
}

// RepoURL returns the web URL of the source repository.
func (s *SkillRecord) RepoURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", s.Owner, s.Repo)
}
