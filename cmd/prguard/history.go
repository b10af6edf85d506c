package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		repo    string
		limit   int
		details bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded check runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStore()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			runs, err := store.ListRuns(ctx, repo, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREPO\tPR\tSTATUS\tFAILED\tWHEN")
			for _, r := range runs {
				status := string(r.Status)
				if r.Exempt != "" {
					status += " (exempt)"
				}
				fmt.Fprintf(w, "%d\t%s\t#%d\t%s\t%d/%d\t%s\n",
					r.ID, r.Repo, r.Number, status, r.Failed, r.Total, r.CreatedAt.Format(time.RFC3339))

				if !details {
					continue
				}
				results, err := store.LoadResults(ctx, r.ID)
				if err != nil {
					return err
				}
				for _, res := range results {
					mark := "PASS"
					if !res.Passed {
						mark = "FAIL"
					}
					fmt.Fprintf(w, "\t\t\t[%s] %s\t%s\t\n", mark, res.Name, res.Message)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "Only show runs for owner/name")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show")
	cmd.Flags().BoolVar(&details, "details", false, "Show the results of each run")
	return cmd
}
