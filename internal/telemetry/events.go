package telemetry

import (
	"runtime"

	"github.com/skillscout/skillscout/pkg/version"
)

// Event names.
const (
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
	EventDiscoveryCompleted = "discovery_completed"
	EventIndexRunCompleted  = "index_run_completed"
	EventRescanCompleted    = "rescan_completed"
	EventSearchResynced     = "search_resynced"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
		"version": version.Short(),
	}
}

// TrackCLICommandExecuted tracks a completed CLI command.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command"] = commandName
	props["has_flags"] = hasFlags
	props["duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackCLIError tracks a CLI command failure by coarse error type.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIErrorOccurred, props)
}

// TrackDiscoveryCompleted tracks one discovery run.
func (c *posthogClient) TrackDiscoveryCompleted(candidates int, durationMs int64) {
	props := baseProperties()
	props["candidate_count"] = candidates
	props["duration_ms"] = durationMs
	c.Track(EventDiscoveryCompleted, props)
}

// TrackIndexRunCompleted tracks one batch indexing run.
func (c *posthogClient) TrackIndexRunCompleted(indexed, skipped, failed int, durationMs int64) {
	props := baseProperties()
	props["indexed"] = indexed
	props["skipped"] = skipped
	props["failed"] = failed
	props["duration_ms"] = durationMs
	c.Track(EventIndexRunCompleted, props)
}

// TrackRescanCompleted tracks one batch rescan run.
func (c *posthogClient) TrackRescanCompleted(scanned, failed int, dryRun bool) {
	props := baseProperties()
	props["scanned"] = scanned
	props["failed"] = failed
	props["dry_run"] = dryRun
	c.Track(EventRescanCompleted, props)
}

// TrackSearchResynced tracks one bulk search-index resynchronization.
func (c *posthogClient) TrackSearchResynced(synced, failed int) {
	props := baseProperties()
	props["synced"] = synced
	props["failed"] = failed
	c.Track(EventSearchResynced, props)
}
