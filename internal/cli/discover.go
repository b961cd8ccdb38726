package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillscout/skillscout/internal/db"
)

var discoverLimit int

var discoverCmd = newDiscoverCmd()

func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover repositories that may publish skills",
		Long: `Run the discovery strategies (curated-list mining, topic search,
fork-network traversal) and print the deduplicated candidate set.

Candidates are not indexed; use 'skillscout index' for that.`,
		RunE: runDiscover,
	}
	cmd.Flags().IntVar(&discoverLimit, "limit", 0, "Print at most this many candidates (0 = all)")
	return cmd
}

func runDiscover(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()

	start := time.Now()
	candidates, stats := a.newOrchestrator().Run(cmd.Context())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tFOUND\tELAPSED")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, s.Found, s.Elapsed.Round(time.Millisecond))
	}
	w.Flush()

	fmt.Printf("\n%d candidates:\n", len(candidates))
	for i, c := range candidates {
		if discoverLimit > 0 && i >= discoverLimit {
			fmt.Printf("  ... and %d more\n", len(candidates)-discoverLimit)
			break
		}
		fmt.Printf("  %s (via %s, %d stars)\n", c.RepoName(), c.DiscoveredVia, c.StarCount)
	}

	if err := a.db.SetSyncMeta(db.SyncMetaLastDiscovery, time.Now().UTC().Format(time.RFC3339)); err != nil {
		a.log.Errorf("discover: record run time: %v", err)
	}
	telemetryClient.TrackDiscoveryCompleted(len(candidates), time.Since(start).Milliseconds())
	return nil
}
