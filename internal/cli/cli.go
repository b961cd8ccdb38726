// Package cli provides the command-line interface for skillscout.
package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/skillscout/skillscout/internal/telemetry"
	"github.com/skillscout/skillscout/pkg/version"
)

var telemetryClient telemetry.Client

var commandStartTime time.Time

var rootCmd = &cobra.Command{
	Use:   "skillscout",
	Short: "Skill discovery and indexing pipeline",
	Long: `Skill discovery and indexing pipeline

Discovers repositories that publish AI skill instruction files, fetches and
scores their content, and maintains a deduplicated local catalog with an
optional secondary search index.

Telemetry:
  Telemetry is enabled by default, always anonymous, and will never track
  personal information, repository content, or IP addresses.

  Opt-out with:
  	SKILLSCOUT_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "skillscout" {
			durationMs := time.Since(commandStartTime).Milliseconds()
			telemetryClient.TrackCLICommandExecuted(cmd.Name(), cmd.Flags().NFlag() > 0, durationMs)
		}
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(rescanCmd)
	rootCmd.AddCommand(resyncCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(unblockCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New(nil)
	}
	telemetryClient = tc

	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}

// trackCLIError records a command failure before returning it.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	telemetryClient.TrackCLIError(cmdName, classifyError(err))
	return err
}

// classifyError determines the error type for telemetry.
func classifyError(err error) string {
	errStr := strings.ToLower(err.Error())
	switch {
	case containsAny(errStr, "rate limit", "exhausted"):
		return "rate_limit_error"
	case containsAny(errStr, "database", "sqlite"):
		return "database_error"
	case containsAny(errStr, "transport", "timeout", "connection"):
		return "network_error"
	case containsAny(errStr, "not found", "does not exist"):
		return "not_found_error"
	case containsAny(errStr, "token", "credential"):
		return "config_error"
	default:
		return "unknown_error"
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
