package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repominer/repominer/internal/search"
)

func (a *App) newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [flags]",
		Short: "Search GitHub for repositories matching the configured keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd)
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().BoolP("verbose", "v", false, "List matching repositories")
	return cmd
}

func (a *App) runSearch(cmd *cobra.Command) error {
	if err := a.ensureClient(); err != nil {
		return err
	}
	ctx := context.Background()
	verbose, _ := cmd.Flags().GetBool("verbose")
	w := cmd.OutOrStdout()

	q := a.queryFromFlags(cmd)
	out, err := search.Run(ctx, a.GHClient, a.Cache, a.Log, q, search.Options{NoCache: a.Config.NoCache})
	if err != nil {
		return fmt.Errorf("searching repositories: %w", err)
	}

	fmt.Fprintf(w, "Total unique repositories found: %d\n", len(out.Repos))
	if len(out.Failed) > 0 {
		fmt.Fprintf(w, "Keywords skipped after retries: %d\n", len(out.Failed))
	}
	if verbose {
		for _, repo := range out.Repos {
			fmt.Fprintf(w, "%s,%d,%d\n", repo.FullName(), repo.Stars, repo.Forks)
		}
	}
	return nil
}
