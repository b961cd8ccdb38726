package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listOffset int
)

var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed skills",
		Long: `List browse-ready skills (not blocked, not flagged duplicate),
most-starred first.`,
		RunE: runList,
	}
	cmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum records to print")
	cmd.Flags().IntVar(&listOffset, "offset", 0, "Records to skip")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()

	total, err := a.db.CountSkills()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	skills, err := a.db.BrowseReady(listLimit, listOffset)
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARS\tSECURITY\tQUALITY")
	for _, s := range skills {
		fmt.Fprintf(w, "%s\t%d\t%s\t%.0f\n", s.ID, s.StarCount, s.SecurityStatus, s.QualityScore)
	}
	w.Flush()
	fmt.Printf("\n%d of %d records\n", len(skills), total)
	return nil
}

var infoCmd = &cobra.Command{
	Use:   "info <skill-id>",
	Short: "Show one skill record",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()

	skill, err := a.db.GetSkill(args[0])
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	if skill == nil {
		return fmt.Errorf("skill %q not found", args[0])
	}

	fmt.Printf("%s\n", skill.ID)
	fmt.Printf("  Name:        %s\n", skill.Name)
	fmt.Printf("  Description: %s\n", skill.Description)
	fmt.Printf("  Source:      %s (%s@%s)\n", skill.RepoURL(), skill.Path, skill.Branch)
	fmt.Printf("  Convention:  %s\n", skill.Convention)
	fmt.Printf("  Security:    %s (score %d, review %s)\n", skill.SecurityStatus, skill.SecurityScore, skill.ReviewStatus)
	fmt.Printf("  Quality:     %.0f (docs %.0f, maintenance %.0f, popularity %.0f)\n",
		skill.QualityScore, skill.DocsScore, skill.MaintenanceScore, skill.PopularityScore)
	fmt.Printf("  Stars/Forks: %d/%d\n", skill.StarCount, skill.ForkCount)
	if !skill.BrowseReady() {
		fmt.Printf("  Retired:     blocked=%v duplicate=%v\n", skill.IsBlocked, skill.IsDuplicate)
	}

	categories, err := a.db.GetSkillCategories(skill.ID)
	if err == nil && len(categories) > 0 {
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		fmt.Printf("  Categories:  %s\n", strings.Join(names, ", "))
	}
	return nil
}

var searchLimit int

var searchCmd = newSearchCmd()

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed skills by meaning",
		Long: `Query the secondary search index. Requires OPENAI_API_KEY; without it
the index is unconfigured and this command reports nothing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
	cmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()

	if !a.search.Configured() {
		fmt.Println("search index not configured (set OPENAI_API_KEY)")
		return nil
	}

	hits, err := a.search.Query(cmd.Context(), strings.Join(args, " "), searchLimit)
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	if len(hits) == 0 {
		fmt.Println("no results")
		return nil
	}
	for _, hit := range hits {
		fmt.Printf("%.3f  %s\n", hit.Score, hit.ID)
	}
	return nil
}

var blockDuplicate bool

var blockCmd = newBlockCmd()

func newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block <skill-id>",
		Short: "Retire a skill record",
		Long: `Mark a record blocked (or duplicate with --duplicate) and drop it from
the search index. Retirement is logical: the record stays in the store and
re-indexing will not resurrect it.`,
		Args: cobra.ExactArgs(1),
		RunE: runBlock,
	}
	cmd.Flags().BoolVar(&blockDuplicate, "duplicate", false, "Flag as duplicate instead of blocked")
	return cmd
}

func runBlock(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()
	id := args[0]

	skill, err := a.db.GetSkill(id)
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	if skill == nil {
		return fmt.Errorf("skill %q not found", id)
	}

	if blockDuplicate {
		err = a.db.SetDuplicate(id, true)
	} else {
		err = a.db.SetBlocked(id, true)
	}
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}

	if err := a.search.Delete(cmd.Context(), id); err != nil {
		a.log.Errorf("block %s: remove from search index: %v", id, err)
	}
	fmt.Printf("retired %s\n", id)
	return nil
}

var unblockCmd = &cobra.Command{
	Use:   "unblock <skill-id>",
	Short: "Restore a retired skill record",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnblock,
}

func runUnblock(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()
	id := args[0]

	if err := a.db.SetBlocked(id, false); err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	if err := a.db.SetDuplicate(id, false); err != nil {
		return trackCLIError(cmd.Name(), err)
	}

	if skill, err := a.db.GetSkill(id); err == nil && skill != nil {
		if err := a.search.SyncSkill(cmd.Context(), skill); err != nil {
			a.log.Errorf("unblock %s: search sync: %v", id, err)
		}
	}
	fmt.Printf("restored %s\n", id)
	return nil
}
