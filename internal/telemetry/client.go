// Package telemetry provides anonymous usage tracking via PostHog.
package telemetry

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
)

// PostHogAPIKey is set at compile time via ldflags.
var PostHogAPIKey string

// TrackingIDProvider supplies the persistent anonymous tracking ID. The
// database implements this; a nil provider falls back to a per-session UUID.
type TrackingIDProvider interface {
	GetOrCreateTrackingID() string
}

// Client is the telemetry surface used by the CLI and pipeline.
type Client interface {
	Track(event string, properties map[string]interface{})
	Close()
	GetTrackingID() string

	TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64)
	TrackCLIError(commandName, errorType string)

	TrackDiscoveryCompleted(candidates int, durationMs int64)
	TrackIndexRunCompleted(indexed, skipped, failed int, durationMs int64)
	TrackRescanCompleted(scanned, failed int, dryRun bool)
	TrackSearchResynced(synced, failed int)
}

// posthogClient wraps the PostHog SDK.
type posthogClient struct {
	client     posthog.Client
	trackingID string
	mu         sync.Mutex
}

// noopClient does nothing (for disabled telemetry).
type noopClient struct{}

// IsEnabled returns true if telemetry is enabled. Telemetry is opt-out:
// enabled by default unless SKILLSCOUT_TELEMETRY_TRACKING_ENABLED=false.
func IsEnabled() bool {
	return os.Getenv("SKILLSCOUT_TELEMETRY_TRACKING_ENABLED") != "false" && PostHogAPIKey != ""
}

// New creates a telemetry client with a persistent tracking ID from the
// provider. A nil provider generates a per-session UUID.
func New(provider TrackingIDProvider) Client {
	if !IsEnabled() {
		return &noopClient{}
	}

	client, err := posthog.NewWithConfig(PostHogAPIKey, posthog.Config{
		Endpoint:  "https://us.i.posthog.com",
		BatchSize: 250,
		Interval:  5 * time.Second,
	})
	if err != nil {
		return &noopClient{}
	}

	var trackingID string
	if provider != nil {
		trackingID = provider.GetOrCreateTrackingID()
	} else {
		trackingID = uuid.New().String()
	}

	return &posthogClient{client: client, trackingID: trackingID}
}

// Track sends an event to PostHog.
func (c *posthogClient) Track(event string, properties map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	props := posthog.NewProperties()
	props.Set("$process_person_profile", true)
	props.Set("$geoip_disable", true)
	for k, v := range properties {
		props.Set(k, v)
	}

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.trackingID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes remaining events and closes the client.
func (c *posthogClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.client.Close()
}

// GetTrackingID returns the anonymous tracking ID.
func (c *posthogClient) GetTrackingID() string {
	return c.trackingID
}

func (c *noopClient) Track(string, map[string]interface{}) {}
func (c *noopClient) Close()                               {}
func (c *noopClient) GetTrackingID() string                { return "" }

func (c *noopClient) TrackCLICommandExecuted(string, bool, int64) {}
func (c *noopClient) TrackCLIError(string, string)                {}
func (c *noopClient) TrackDiscoveryCompleted(int, int64)          {}
func (c *noopClient) TrackIndexRunCompleted(int, int, int, int64) {}
func (c *noopClient) TrackRescanCompleted(int, int, bool)         {}
func (c *noopClient) TrackSearchResynced(int, int)                {}
