// Package fetch resolves convention-specific instruction-file paths and
// retrieves skill content, with a single raw-content fallback on transport
// failure.
package fetch

import (
	"strings"

	"github.com/skillscout/skillscout/internal/models"
)

// Instruction-file names per layout convention.
const (
	SkillFileName       = "SKILL.md"
	CursorRulesFileName = ".cursorrules"
	AgentsFileName      = "AGENTS.md"
	CopilotFilePath     = ".github/copilot-instructions.md"
	ClaudeFileName      = "CLAUDE.md"
)

// skillRoots are the well-known parents a skill directory may nest under for
// the default convention.
var skillRoots = []string{"skills", ".claude/skills", ".github/skills"}

// SkillRoots returns the well-known skill directory parents. Deep scanning
// walks these when probing a repository.
func SkillRoots() []string {
	roots := make([]string, len(skillRoots))
	copy(roots, skillRoots)
	return roots
}

// CandidatePaths returns the ordered list of paths to try for a source.
// Callers try them strictly in order; "not found" advances to the next.
func CandidatePaths(src models.SkillSource) []string {
	switch src.Convention {
	case models.ConventionCursorRules:
		return []string{CursorRulesFileName}
	case models.ConventionAgents:
		return []string{AgentsFileName}
	case models.ConventionCopilot:
		return []string{CopilotFilePath}
	case models.ConventionClaude:
		if src.Path == "" {
			return []string{ClaudeFileName}
		}
		return []string{src.Path + "/" + ClaudeFileName, ClaudeFileName}
	default:
		return skillCandidates(src.Path)
	}
}

func skillCandidates(path string) []string {
	if path == "" {
		return []string{SkillFileName}
	}

	candidates := []string{path + "/" + SkillFileName}
	for _, root := range skillRoots {
		// Skip roots the path already lives under.
		if strings.HasPrefix(path, root+"/") || path == root {
			continue
		}
		candidates = append(candidates, root+"/"+path+"/"+SkillFileName)
	}
	return candidates
}
