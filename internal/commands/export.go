package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/repominer/repominer/internal/export"
	"github.com/repominer/repominer/internal/format"
	"github.com/repominer/repominer/internal/search"
)

func (a *App) newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [flags]",
		Short: "Search GitHub and export matching repositories as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd)
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().String("output", "", "Output file path (overrides OUTPUT_FILE)")
	cmd.Flags().Bool("stdout", false, "Write JSON to stdout instead of the output file")
	return cmd
}

func (a *App) runExport(cmd *cobra.Command) error {
	if err := a.ensureClient(); err != nil {
		return err
	}
	ctx := context.Background()
	w := cmd.OutOrStdout()

	q := a.queryFromFlags(cmd)
	outputPath := a.Config.OutputFile
	if cmd.Flags().Changed("output") {
		outputPath, _ = cmd.Flags().GetString("output")
	}
	toStdout, _ := cmd.Flags().GetBool("stdout")

	out, err := search.Run(ctx, a.GHClient, a.Cache, a.Log, q, search.Options{NoCache: a.Config.NoCache})
	if err != nil {
		return fmt.Errorf("searching repositories: %w", err)
	}
	records := export.FromRepos(out.Repos)

	if toStdout {
		return format.WriteJSON(w, records)
	}
	if err := export.WriteFile(outputPath, records); err != nil {
		return err
	}

	fmt.Fprintf(w, "Exported %d repositories to %s\n", len(records), outputPath)
	for _, f := range out.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped keyword %q: %v\n", f.Keyword, f.Err)
	}
	return nil
}

// ExportJSON runs the configured search and writes JSON to w. Used by
// the Lambda entrypoint.
func (a *App) ExportJSON(ctx context.Context, w io.Writer) error {
	if err := a.ensureClient(); err != nil {
		return err
	}

	q := search.Query{
		Keywords: a.Config.Keywords,
		MinStars: a.Config.MinStars,
		MinForks: a.Config.MinForks,
	}
	out, err := search.Run(ctx, a.GHClient, a.Cache, a.Log, q, search.Options{NoCache: a.Config.NoCache})
	if err != nil {
		return fmt.Errorf("searching repositories: %w", err)
	}
	for _, f := range out.Failed {
		a.Log.Warn("keyword skipped", zap.String("keyword", f.Keyword), zap.Error(f.Err))
	}
	return format.WriteJSON(w, export.FromRepos(out.Repos))
}
