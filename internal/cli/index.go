package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillscout/skillscout/internal/db"
	"github.com/skillscout/skillscout/internal/discovery"
	"github.com/skillscout/skillscout/internal/models"
)

var (
	indexForce bool
	indexAll   bool
)

var indexCmd = newIndexCmd()

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [owner/repo ...]",
		Short: "Deep-scan repositories and index the skills they publish",
		Long: `Deep-scan the given repositories for instruction files under every
supported layout convention and index what is found.

With --all, discovery runs first and every candidate is scanned. Without
arguments or --all, repositories with approved add requests are scanned.`,
		RunE: runIndex,
	}
	cmd.Flags().BoolVar(&indexForce, "force", false, "Re-index even when content is unchanged")
	cmd.Flags().BoolVar(&indexAll, "all", false, "Discover candidates first and index all of them")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()
	ctx := cmd.Context()
	start := time.Now()

	repos, err := indexTargets(a, args)
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	if indexAll {
		candidates, _ := a.newOrchestrator().Run(ctx)
		repos = append(repos, candidates...)
	}
	if len(repos) == 0 {
		fmt.Println("nothing to index; pass owner/repo arguments or --all")
		return nil
	}

	sources := discovery.NewDeepScanner(a.api, a.log).Scan(ctx, repos)
	fmt.Printf("found %d skill sources in %d repositories\n", len(sources), len(repos))

	sum := a.newIndexer().IndexAll(ctx, sources, indexForce)
	fmt.Printf("indexed %d, skipped %d, failed %d\n", sum.Indexed, sum.Skipped, sum.Failed)
	for _, id := range sum.IDs {
		fmt.Printf("  %s\n", id)
	}

	if err := a.db.SetSyncMeta(db.SyncMetaLastIndex, time.Now().UTC().Format(time.RFC3339)); err != nil {
		a.log.Errorf("index: record run time: %v", err)
	}
	telemetryClient.TrackIndexRunCompleted(sum.Indexed, sum.Skipped, sum.Failed, time.Since(start).Milliseconds())
	return nil
}

// indexTargets resolves explicit owner/repo arguments, falling back to
// repositories with approved add requests.
func indexTargets(a *app, args []string) ([]models.RepoCandidate, error) {
	var repos []models.RepoCandidate
	for _, arg := range args {
		owner, repo, ok := strings.Cut(arg, "/")
		if !ok || owner == "" || repo == "" {
			return nil, fmt.Errorf("invalid repository %q, expected owner/repo", arg)
		}
		repos = append(repos, models.RepoCandidate{Owner: owner, Repo: repo, DiscoveredVia: "manual"})
	}
	if len(repos) > 0 || indexAll {
		return repos, nil
	}

	requests, err := a.db.ListRequests(models.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, req := range requests {
		c := models.RepoCandidate{Owner: req.Owner, Repo: req.Repo, DiscoveredVia: "add-request"}
		if _, ok := seen[c.Key()]; ok {
			continue
		}
		seen[c.Key()] = struct{}{}
		repos = append(repos, c)
	}
	return repos, nil
}
