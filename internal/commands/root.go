package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/repominer/repominer/internal/cache"
	"github.com/repominer/repominer/internal/config"
	ghub "github.com/repominer/repominer/internal/github"
	"github.com/repominer/repominer/internal/search"
)

// ErrMissingToken is returned when a command needs GitHub credentials
// and none are configured.
var ErrMissingToken = errors.New("GITHUB_TOKEN must be set")

// App holds shared application state.
type App struct {
	Config   config.Config
	Cache    *cache.Cache
	GHClient ghub.Client
	Log      *zap.Logger
	GitSHA   string
	GitDirty string
}

// NewApp creates a new App from the given configuration.
func NewApp(cfg config.Config, log *zap.Logger, gitSHA, gitDirty string) (*App, error) {
	c, err := cache.LoadFromFile(cfg.CacheFile)
	if err != nil {
		return nil, fmt.Errorf("loading cache: %w", err)
	}

	return &App{
		Config:   cfg,
		Cache:    c,
		Log:      log,
		GitSHA:   gitSHA,
		GitDirty: gitDirty,
	}, nil
}

// ensureClient creates the GitHub client if it doesn't exist.
func (a *App) ensureClient() error {
	if a.GHClient != nil {
		return nil
	}
	if a.Config.GitHubToken == "" {
		return ErrMissingToken
	}
	a.GHClient = ghub.NewClient(a.Config.GitHubToken)
	return nil
}

// SaveCache saves the cache to disk if caching is enabled.
func (a *App) SaveCache() error {
	if !a.Config.NoCache {
		return a.Cache.SaveToFile(a.Config.CacheFile)
	}
	return nil
}

// NewRootCommand creates the root cobra command with all subcommands.
func (a *App) NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repominer",
		Short: "Search GitHub repositories by keyword and export them as JSON.",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().BoolVar(&a.Config.NoCache, "no-cache", false, "Disable caching")

	rootCmd.AddCommand(a.newExportCommand())
	rootCmd.AddCommand(a.newSearchCommand())
	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(a.newClearCacheCommand())

	return rootCmd
}

// queryFromFlags builds the search query from configuration, letting
// command flags override individual values.
func (a *App) queryFromFlags(cmd *cobra.Command) search.Query {
	q := search.Query{
		Keywords: a.Config.Keywords,
		MinStars: a.Config.MinStars,
		MinForks: a.Config.MinForks,
	}
	if cmd.Flags().Changed("keywords") {
		raw, _ := cmd.Flags().GetString("keywords")
		q.Keywords = config.SplitKeywords(raw)
	}
	if cmd.Flags().Changed("min-stars") {
		q.MinStars, _ = cmd.Flags().GetInt("min-stars")
	}
	if cmd.Flags().Changed("min-forks") {
		q.MinForks, _ = cmd.Flags().GetInt("min-forks")
	}
	return q
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("keywords", "", "Comma-separated search keywords (overrides KEYWORDS_ENV)")
	cmd.Flags().Int("min-stars", config.DefaultMinStars, "Minimum star count (overrides MIN_STARS)")
	cmd.Flags().Int("min-forks", config.DefaultMinForks, "Minimum fork count (overrides MIN_FORKS)")
}
