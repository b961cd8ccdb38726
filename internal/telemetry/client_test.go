package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledTelemetryIsNoop(t *testing.T) {
	t.Setenv("SKILLSCOUT_TELEMETRY_TRACKING_ENABLED", "false")

	client := New(nil)
	_, isNoop := client.(*noopClient)
	assert.True(t, isNoop)
	assert.Empty(t, client.GetTrackingID())

	// None of these may panic on the noop client.
	client.Track("event", map[string]interface{}{"k": "v"})
	client.TrackDiscoveryCompleted(10, 1200)
	client.TrackIndexRunCompleted(5, 2, 1, 4000)
	client.TrackRescanCompleted(3, 0, false)
	client.Close()
}

func TestMissingAPIKeyDisablesTelemetry(t *testing.T) {
	t.Setenv("SKILLSCOUT_TELEMETRY_TRACKING_ENABLED", "")
	assert.False(t, IsEnabled(), "no compile-time API key means telemetry stays off")
}
