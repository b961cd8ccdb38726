package security

import (
	"strings"

	"github.com/skillscout/skillscout/internal/models"
)

// MaxContentSize is the maximum content size to scan (100KB). Larger content
// is truncated to prevent regex backtracking issues.
const MaxContentSize = 100 * 1024

// Classification thresholds over the summed severity weights.
const (
	ThresholdWarning = 3
	ThresholdFail    = 8
)

// Finding is one matched pattern occurrence.
type Finding struct {
	PatternID string
	Name      string
	Category  ThreatCategory
	Severity  Severity
	File      string // empty for the instruction text itself
	Line      int
}

// Report is the outcome of scoring a skill's content and scripts.
type Report struct {
	Score    int
	Status   models.SecurityStatus
	Findings []Finding
}

// Scanner runs the heuristic over instruction text plus fetched scripts.
// It is stateless and safe for concurrent use.
type Scanner struct {
	patterns []Pattern
}

// NewScanner creates a scanner with the default pattern set.
func NewScanner() *Scanner {
	return &Scanner{patterns: AllPatterns()}
}

// Scan scores instruction content and any fetched script files, producing a
// numeric score and its pass/warning/fail classification.
func (s *Scanner) Scan(content string, scripts map[string]string) *Report {
	report := &Report{}

	report.Findings = append(report.Findings, s.scanText(content, "", false)...)
	for name, body := range scripts {
		report.Findings = append(report.Findings, s.scanText(body, name, true)...)
	}

	for _, finding := range report.Findings {
		report.Score += finding.Severity.Weight()
	}
	report.Status = Classify(report.Score)
	return report
}

// Classify maps a score onto the coarse status via fixed thresholds.
func Classify(score int) models.SecurityStatus {
	switch {
	case score >= ThresholdFail:
		return models.SecurityStatusFail
	case score >= ThresholdWarning:
		return models.SecurityStatusWarning
	default:
		return models.SecurityStatusPass
	}
}

func (s *Scanner) scanText(text, file string, isScript bool) []Finding {
	if len(text) > MaxContentSize {
		text = text[:MaxContentSize]
	}

	var findings []Finding
	for _, pattern := range s.patterns {
		if pattern.ScriptsOnly && !isScript {
			continue
		}
		loc := pattern.Regex.FindStringIndex(text)
		if loc == nil {
			continue
		}
		findings = append(findings, Finding{
			PatternID: pattern.ID,
			Name:      pattern.Name,
			Category:  pattern.Category,
			Severity:  pattern.Severity,
			File:      file,
			Line:      1 + strings.Count(text[:loc[0]], "\n"),
		})
	}
	return findings
}
