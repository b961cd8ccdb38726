// Package security implements the heuristic scoring of skill content and
// scripts: pattern matching, severity weighting, and the pass/warning/fail
// classification used across the live pipeline and the batch rescan job.
package security

import "regexp"

// Severity grades a pattern match.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Weight returns the score contribution of a severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 5
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// ThreatCategory groups patterns by attack class.
type ThreatCategory string

const (
	CategoryInstructionOverride ThreatCategory = "instruction_override"
	CategoryJailbreak           ThreatCategory = "jailbreak"
	CategorySystemSpoofing      ThreatCategory = "system_spoofing"
	CategoryDataExfiltration    ThreatCategory = "data_exfiltration"
	CategoryObfuscation         ThreatCategory = "obfuscation"
	CategoryScriptDanger        ThreatCategory = "script_danger"
)

// Pattern is one detection rule applied to instruction text or scripts.
type Pattern struct {
	ID       string
	Name     string
	Category ThreatCategory
	Severity Severity
	Regex    *regexp.Regexp
	// ScriptsOnly restricts the pattern to fetched script files.
	ScriptsOnly bool
}

// ContentPatterns detect prompt-injection style threats in instruction text.
var ContentPatterns = []Pattern{
	{
		ID:       "IO-001",
		Name:     "Ignore Previous Instructions",
		Category: CategoryInstructionOverride,
		Severity: SeverityHigh,
		Regex:    regexp.MustCompile(`(?i)\b(ignore|discard|disregard)\s+(all\s+)?(previous|prior|above|earlier)\s+(instructions?|prompts?|rules?|guidelines?)`),
	},
	{
		ID:       "IO-002",
		Name:     "New Instructions Override",
		Category: CategoryInstructionOverride,
		Severity: SeverityHigh,
		Regex:    regexp.MustCompile(`(?i)\b(new|these|my)\s+instructions?\s+(override|supersede|replace|take\s+precedence)`),
	},
	{
		ID:       "IO-003",
		Name:     "Stop Following Rules",
		Category: CategoryInstructionOverride,
		Severity: SeverityHigh,
		Regex:    regexp.MustCompile(`(?i)\b(stop|cease|don'?t)\s+(follow(ing)?|obey(ing)?)\s+(the\s+)?(rules?|guidelines?|instructions?|policies)`),
	},
	{
		ID:       "JB-001",
		Name:     "DAN Jailbreak",
		Category: CategoryJailbreak,
		Severity: SeverityCritical,
		Regex:    regexp.MustCompile(`(?i)\b(you\s+are|act\s+as|pretend\s+(to\s+be|you'?re))\s+DAN\b|\bDAN\s+(mode|persona|jailbreak)`),
	},
	{
		ID:       "JB-002",
		Name:     "No Restrictions Persona",
		Category: CategoryJailbreak,
		Severity: SeverityCritical,
		Regex:    regexp.MustCompile(`(?i)\b(without|no|free\s+(of|from))\s+(any\s+)?(restrictions?|limitations?|filters?|censorship|guardrails)\b`),
	},
	{
		ID:       "SS-001",
		Name:     "System Prompt Spoofing",
		Category: CategorySystemSpoofing,
		Severity: SeverityHigh,
		Regex:    regexp.MustCompile(`(?i)(\[\s*system\s*\]|<\s*system\s*>|^\s*system\s*:)`),
	},
	{
		ID:       "DE-001",
		Name:     "Secret Harvesting",
		Category: CategoryDataExfiltration,
		Severity: SeverityCritical,
		Regex:    regexp.MustCompile(`(?i)\b(send|post|upload|exfiltrate|forward)\b.{0,40}\b(api[_\s-]?keys?|tokens?|credentials?|passwords?|secrets?|\.env)\b`),
	},
	{
		ID:       "DE-002",
		Name:     "Environment Dump",
		Category: CategoryDataExfiltration,
		Severity: SeverityMedium,
		Regex:    regexp.MustCompile(`(?i)\b(cat|print|echo|read)\b.{0,20}(\.env\b|/etc/passwd|~/\.ssh|id_rsa)`),
	},
	{
		ID:       "OB-001",
		Name:     "Base64 Payload Execution",
		Category: CategoryObfuscation,
		Severity: SeverityHigh,
		Regex:    regexp.MustCompile(`(?i)\b(base64\s+(-d|--decode)|atob\s*\()\b.{0,40}\b(sh|bash|eval|exec)\b`),
	},
	{
		ID:       "OB-002",
		Name:     "Zero-Width Characters",
		Category: CategoryObfuscation,
		Severity: SeverityMedium,
		Regex:    regexp.MustCompile(`[\x{200B}\x{200C}\x{200D}\x{2060}\x{FEFF}]`),
	},
}

// ScriptPatterns detect dangerous commands in fetched script files. They also
// apply to instruction text, where shell snippets are common.
var ScriptPatterns = []Pattern{
	{
		ID:       "SH-001",
		Name:     "Recursive Delete",
		Category: CategoryScriptDanger,
		Severity: SeverityHigh,
		Regex:    regexp.MustCompile(`\brm\s+(-[a-zA-Z]*r[a-zA-Z]*f|-[a-zA-Z]*f[a-zA-Z]*r)\b`),
	},
	{
		ID:       "SH-002",
		Name:     "Pipe To Shell",
		Category: CategoryScriptDanger,
		Severity: SeverityHigh,
		Regex:    regexp.MustCompile(`(?i)\b(curl|wget)\b[^\n|]*\|\s*(sudo\s+)?(sh|bash|zsh)\b`),
	},
	{
		ID:       "SH-003",
		Name:     "World-Writable Permissions",
		Category: CategoryScriptDanger,
		Severity: SeverityMedium,
		Regex:    regexp.MustCompile(`\bchmod\s+(777|a\+[rwx]*w|o\+[rwx]*w)`),
	},
	{
		ID:          "SH-004",
		Name:        "Eval Of Variable",
		Category:    CategoryScriptDanger,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`\beval\s+("?\$|\()`),
		ScriptsOnly: true,
	},
	{
		ID:       "SH-005",
		Name:     "Credential File Access",
		Category: CategoryScriptDanger,
		Severity: SeverityHigh,
		Regex:    regexp.MustCompile(`(?i)(~/\.aws/credentials|~/\.ssh/id_|\.netrc\b)`),
	},
}

// AllPatterns returns content and script patterns combined.
func AllPatterns() []Pattern {
	all := make([]Pattern, 0, len(ContentPatterns)+len(ScriptPatterns))
	all = append(all, ContentPatterns...)
	all = append(all, ScriptPatterns...)
	return all
}
