// Package config handles application configuration management.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all skillscout data
	BaseDir string

	GitHub GitHubConfig
	Search SearchConfig
	Notify NotifyConfig
}

// GitHubConfig holds hosting-platform API settings.
type GitHubConfig struct {
	// Tokens is the credential set managed by the token pool. At least one
	// token is required for authenticated scraping.
	Tokens []string

	// RateLimit is requests per minute across the process (0 = default).
	RateLimit int

	// MaxSearchPages caps topic-search pagination.
	MaxSearchPages int

	// MinSeedStars is the star threshold for fork/network seed repos.
	MinSeedStars int

	// MaxForkSeeds caps how many repos seed the fork/network strategy.
	MaxForkSeeds int
}

// SearchConfig holds secondary search index settings. The secondary index is
// strictly optional: with no API key it stays unconfigured and every sync is
// a no-op.
type SearchConfig struct {
	// OpenAI API key for embeddings (OPENAI_API_KEY env var)
	APIKey string
	// DataDir for chromem-go persistence (default: <BaseDir>/search)
	DataDir string
}

// NotifyConfig holds notification collaborator settings.
type NotifyConfig struct {
	// WebhookURL receives indexed-notification payloads. Empty disables
	// notifications.
	WebhookURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		BaseDir: DefaultBaseDir(),
		GitHub: GitHubConfig{
			RateLimit:      envInt("SKILLSCOUT_GITHUB_RATE_LIMIT", 0),
			MaxSearchPages: envInt("SKILLSCOUT_MAX_SEARCH_PAGES", 10),
			MinSeedStars:   envInt("SKILLSCOUT_MIN_SEED_STARS", 50),
			MaxForkSeeds:   envInt("SKILLSCOUT_MAX_FORK_SEEDS", 5),
		},
		Search: SearchConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("SKILLSCOUT_WEBHOOK_URL"),
		},
	}

	if dir := os.Getenv("SKILLSCOUT_BASE_DIR"); dir != "" {
		cfg.BaseDir = dir
	}

	// SKILLSCOUT_GITHUB_TOKENS takes a comma-separated credential set;
	// GITHUB_TOKEN is honored as a single-token fallback.
	if raw := os.Getenv("SKILLSCOUT_GITHUB_TOKENS"); raw != "" {
		for _, tok := range strings.Split(raw, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				cfg.GitHub.Tokens = append(cfg.GitHub.Tokens, tok)
			}
		}
	} else if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		cfg.GitHub.Tokens = []string{tok}
	}

	return cfg, nil
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
