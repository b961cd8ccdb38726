package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Rebuild the secondary search index from the primary store",
	Long: `Mirror every stored record into the secondary search index in fixed-size
batches. The primary store is authoritative; this command only repairs the
index after it was lost or fell behind.`,
	RunE: runResync,
}

func runResync(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()

	if !a.search.Configured() {
		fmt.Println("search index not configured (set OPENAI_API_KEY); nothing to do")
		return nil
	}

	synced, failed := a.search.ResyncAll(cmd.Context(), a.db.ListSkillsPage)
	fmt.Printf("resynced %d records, %d failed\n", synced, failed)
	telemetryClient.TrackSearchResynced(synced, failed)
	return nil
}
