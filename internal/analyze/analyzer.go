// Package analyze turns fetched instruction content into structured
// metadata, a change-detection fingerprint, security scoring and a composite
// quality score. Analysis is pure: no store or network access.
package analyze

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/skillscout/skillscout/internal/hash"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/scraper"
	"github.com/skillscout/skillscout/internal/security"
)

// Metadata is what frontmatter (or content fallbacks) yields about a skill.
type Metadata struct {
	Name        string
	Description string
	Version     string
	Author      string
	License     string
	Tags        []string
}

// Validation reports structural checks. Invalid analyses must not be
// persisted.
type Validation struct {
	IsValid  bool
	Problems []string
}

// Analysis is the full output of analyzing one source's content.
type Analysis struct {
	Meta        Metadata
	Fingerprint string

	SecurityScore    int
	SecurityStatus   models.SecurityStatus
	SecurityFindings []security.Finding

	Quality QualityScore

	Validation Validation
}

// Analyzer parses instruction files and scores them.
type Analyzer struct {
	md      goldmark.Markdown
	scanner *security.Scanner
}

// New creates an analyzer with frontmatter support and the default security
// pattern set.
func New() *Analyzer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Analyzer{md: md, scanner: security.NewScanner()}
}

// Analyze extracts metadata, fingerprints the content, and computes security
// and quality scores. repo may be nil when repository metadata is
// unavailable; maintenance and popularity components then score zero.
func (a *Analyzer) Analyze(content string, src models.SkillSource, repo *scraper.RepoInfo, scripts map[string]string) *Analysis {
	analysis := &Analysis{
		Meta:        a.extractMetadata(content, src),
		Fingerprint: hash.Fingerprint(content),
	}

	report := a.scanner.Scan(content, scripts)
	analysis.SecurityScore = report.Score
	analysis.SecurityStatus = report.Status
	analysis.SecurityFindings = report.Findings

	analysis.Quality = ComputeQuality(analysis.Meta, content, repo)
	analysis.Validation = validate(analysis.Meta, content)
	return analysis
}

func (a *Analyzer) extractMetadata(content string, src models.SkillSource) Metadata {
	var out Metadata

	var buf bytes.Buffer
	context := parser.NewContext()
	if err := a.md.Convert([]byte(content), &buf, parser.WithContext(context)); err == nil {
		frontmatter := meta.Get(context)
		if name, ok := frontmatter["name"].(string); ok {
			out.Name = strings.TrimSpace(name)
		}
		if desc, ok := frontmatter["description"].(string); ok {
			out.Description = strings.TrimSpace(desc)
		}
		if v, ok := frontmatter["version"].(string); ok {
			out.Version = strings.TrimSpace(v)
		}
		if author, ok := frontmatter["author"].(string); ok {
			out.Author = strings.TrimSpace(author)
		}
		if license, ok := frontmatter["license"].(string); ok {
			out.License = strings.TrimSpace(license)
		}
		if raw, ok := frontmatter["tags"].([]interface{}); ok {
			for _, item := range raw {
				if tag, ok := item.(string); ok {
					out.Tags = append(out.Tags, tag)
				}
			}
		}
	}

	if out.Name == "" {
		out.Name = extractFirstHeading(content)
	}
	if out.Name == "" {
		out.Name = fallbackName(src)
	}

	if out.Description == "" {
		out.Description = extractDescription(content)
	}
	return out
}

// fallbackName derives a name when neither frontmatter nor a heading exists:
// the skill directory for the default convention, the convention tag itself
// for root-only layouts.
func fallbackName(src models.SkillSource) string {
	if src.Convention == models.ConventionSkill && src.Path != "" {
		parts := strings.Split(src.Path, "/")
		return parts[len(parts)-1]
	}
	return string(src.Convention)
}

var headingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

func extractFirstHeading(content string) string {
	match := headingPattern.FindStringSubmatch(content)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// extractDescription returns the first non-heading, non-fence paragraph line.
func extractDescription(content string) string {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "---") {
			continue
		}
		if len(trimmed) > 500 {
			trimmed = trimmed[:500]
		}
		return trimmed
	}
	return ""
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a skill name into the identifier segment used in
// record IDs.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func validate(m Metadata, content string) Validation {
	v := Validation{IsValid: true}

	if strings.TrimSpace(content) == "" {
		v.IsValid = false
		v.Problems = append(v.Problems, "empty content")
	}
	if m.Name == "" {
		v.IsValid = false
		v.Problems = append(v.Problems, "no name could be derived")
	}
	if m.Description == "" {
		v.Problems = append(v.Problems, "missing description")
	}
	return v
}
