package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillscout/skillscout/internal/db"
	"github.com/skillscout/skillscout/internal/rescan"
)

var (
	rescanDryRun   bool
	rescanPageSize int
)

var rescanCmd = newRescanCmd()

func newRescanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rescan",
		Short: "Re-score records that have no security verdict yet",
		Long: `Run the security heuristic over every stored record that never
received a verdict, highest-starred first. Already-scored records are
skipped, so an interrupted run resumes on the next invocation.`,
		RunE: runRescan,
	}
	cmd.Flags().BoolVar(&rescanDryRun, "dry-run", false, "Report candidates without writing anything")
	cmd.Flags().IntVar(&rescanPageSize, "page-size", rescan.DefaultPageSize, "Records per page")
	return cmd
}

func runRescan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()

	job := rescan.New(a.db, a.log)
	job.DryRun = rescanDryRun
	if rescanPageSize > 0 {
		job.PageSize = rescanPageSize
	}

	sum, err := job.Run(cmd.Context())
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}

	if rescanDryRun {
		fmt.Printf("%d records eligible for rescan\n", sum.Eligible)
		for _, id := range sum.Sample {
			fmt.Printf("  %s\n", id)
		}
		return nil
	}

	fmt.Printf("scanned %d of %d eligible (%d failed), average score %.1f\n",
		sum.Scanned, sum.Eligible, sum.Failed, sum.AvgScore)
	for status, count := range sum.ByStatus {
		fmt.Printf("  %s: %d\n", status, count)
	}

	if err := a.db.SetSyncMeta(db.SyncMetaLastRescan, time.Now().UTC().Format(time.RFC3339)); err != nil {
		a.log.Errorf("rescan: record run time: %v", err)
	}
	telemetryClient.TrackRescanCompleted(sum.Scanned, sum.Failed, rescanDryRun)
	return nil
}
