package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillscout/skillscout/internal/models"
)

var requestsStatus string

var requestsCmd = newRequestsCmd()

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage repository add requests",
		Long: `List and approve user-submitted requests to index a repository.
Approved requests are picked up by 'skillscout index'; indexing a matching
skill transitions the request to indexed and notifies the requester.`,
		RunE: runRequestsList,
	}
	cmd.Flags().StringVar(&requestsStatus, "status", "", "Filter by status (pending|approved|indexed)")

	cmd.AddCommand(&cobra.Command{
		Use:   "add <owner/repo>",
		Short: "Submit a repository for indexing",
		Args:  cobra.ExactArgs(1),
		RunE:  runRequestsAdd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve a pending request",
		Args:  cobra.ExactArgs(1),
		RunE:  runRequestsApprove,
	})
	return cmd
}

func runRequestsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()

	status := models.RequestStatus(requestsStatus)
	if requestsStatus != "" && !status.IsValid() {
		return fmt.Errorf("invalid status %q", requestsStatus)
	}

	requests, err := a.db.ListRequests(status)
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	if len(requests) == 0 {
		fmt.Println("no requests")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREPOSITORY\tSTATUS\tINDEXED AS")
	for _, req := range requests {
		fmt.Fprintf(w, "%s\t%s/%s\t%s\t%s\n", req.ID, req.Owner, req.Repo, req.Status, req.IndexedSkillID)
	}
	return w.Flush()
}

func runRequestsAdd(cmd *cobra.Command, args []string) error {
	owner, repo, ok := strings.Cut(args[0], "/")
	if !ok || owner == "" || repo == "" {
		return fmt.Errorf("invalid repository %q, expected owner/repo", args[0])
	}

	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()

	req := &models.AddRequest{Owner: owner, Repo: repo, Status: models.RequestStatusPending}
	if err := a.db.CreateAddRequest(req); err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	fmt.Printf("created request %s for %s/%s\n", req.ID, owner, repo)
	return nil
}

func runRequestsApprove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	defer a.Close()

	if err := a.db.ApproveRequest(args[0]); err != nil {
		return trackCLIError(cmd.Name(), err)
	}
	fmt.Printf("approved %s\n", args[0])
	return nil
}
