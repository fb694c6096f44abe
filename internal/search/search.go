// Package search implements the keyword fan-out over the GitHub
// repository search API: paginated fetch per keyword, cross-keyword
// deduplication, threshold filtering, and deterministic ordering.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	gh "github.com/google/go-github/v68/github"
	"go.uber.org/zap"

	"github.com/repominer/repominer/internal/cache"
	"github.com/repominer/repominer/internal/github"
)

// ErrNoKeywords is returned when a query carries no keywords.
var ErrNoKeywords = errors.New("at least one search keyword is required")

// ErrAllKeywordsFailed is returned when every keyword fetch failed and
// there is nothing to export.
var ErrAllKeywordsFailed = errors.New("all keyword searches failed")

// Query holds the search parameters. Immutable once constructed.
type Query struct {
	Keywords []string
	MinStars int
	MinForks int
}

// Validate checks the query constraints.
func (q Query) Validate() error {
	if len(q.Keywords) == 0 {
		return ErrNoKeywords
	}
	if q.MinStars < 0 || q.MinForks < 0 {
		return fmt.Errorf("star and fork thresholds must be >= 0")
	}
	return nil
}

// githubQuery builds the search API query for one keyword. Thresholds
// are pushed into the query so the API does most of the filtering.
func (q Query) githubQuery(keyword string) string {
	return fmt.Sprintf("%s in:name,description stars:>=%d forks:>=%d", keyword, q.MinStars, q.MinForks)
}

func (q Query) cacheKey(keyword string) string {
	return fmt.Sprintf("keywordRepos:%s:%d:%d", keyword, q.MinStars, q.MinForks)
}

// KeywordError records a keyword whose fetch failed after retries.
type KeywordError struct {
	Keyword string
	Err     error
}

func (e KeywordError) Error() string {
	return fmt.Sprintf("keyword %q: %v", e.Keyword, e.Err)
}

func (e KeywordError) Unwrap() error { return e.Err }

// Output holds the merged results and any per-keyword failures.
type Output struct {
	Repos  []github.Repo
	Failed []KeywordError
}

// Options controls caching behavior for a run.
type Options struct {
	NoCache bool
}

// Run executes the query: one paginated search per keyword, retried on
// rate limiting, merged and deduplicated by repository ID. A keyword
// that still fails after retries is recorded in Output.Failed and does
// not abort the run; Run errors only when every keyword failed. The
// result order is stable: stars descending, then full name ascending.
func Run(ctx context.Context, client github.Client, c *cache.Cache, log *zap.Logger, q Query, opts Options) (Output, error) {
	if err := q.Validate(); err != nil {
		return Output{}, err
	}

	seen := make(map[int64]bool)
	var out Output

	for _, keyword := range q.Keywords {
		repos, err := fetchKeyword(ctx, client, c, log, q, keyword, opts)
		if err != nil {
			log.Warn("keyword search failed",
				zap.String("keyword", keyword),
				zap.Error(err))
			out.Failed = append(out.Failed, KeywordError{Keyword: keyword, Err: err})
			continue
		}
		for _, repo := range repos {
			if seen[repo.ID] {
				continue
			}
			seen[repo.ID] = true
			// The API already filters on thresholds; re-check locally
			// so the output invariant never depends on it.
			if repo.Stars < q.MinStars || repo.Forks < q.MinForks {
				continue
			}
			out.Repos = append(out.Repos, repo)
		}
	}

	if len(out.Failed) == len(q.Keywords) {
		return out, fmt.Errorf("%w: %v", ErrAllKeywordsFailed, out.Failed[0].Err)
	}

	sort.Slice(out.Repos, func(i, j int) bool {
		if out.Repos[i].Stars != out.Repos[j].Stars {
			return out.Repos[i].Stars > out.Repos[j].Stars
		}
		return out.Repos[i].FullName() < out.Repos[j].FullName()
	})

	return out, nil
}

// fetchKeyword returns all repositories matching one keyword, paging
// through the search results. Results are cached per keyword and
// threshold pair.
func fetchKeyword(ctx context.Context, client github.Client, c *cache.Cache, log *zap.Logger, q Query, keyword string, opts Options) ([]github.Repo, error) {
	key := q.cacheKey(keyword)
	if !opts.NoCache {
		if val, found := c.Get(key); found {
			if repos, ok := val.([]github.Repo); ok {
				log.Debug("cache hit", zap.String("key", key))
				return repos, nil
			}
		}
		log.Debug("cache miss", zap.String("key", key))
	}

	query := q.githubQuery(keyword)
	options := &gh.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var repos []github.Repo
	for {
		results, response, err := github.SearchWithRetry(ctx, client, query, options)
		if err != nil {
			return nil, err
		}

		for _, r := range results.Repositories {
			repos = append(repos, github.NewRepo(r))
		}
		log.Debug("fetched page",
			zap.String("keyword", keyword),
			zap.Int("total", len(repos)))

		if response.NextPage == 0 {
			break
		}
		options.Page = response.NextPage
	}

	if !opts.NoCache {
		c.Set(key, repos)
	}
	return repos, nil
}
