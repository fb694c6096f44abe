package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultMinStars   = 10
	DefaultMinForks   = 10
	DefaultOutputFile = "results/data.json"
	DefaultCacheFile  = "/tmp/repominer-cache.gob"
)

// Config holds application configuration, resolved once at startup.
// Nothing below this layer reads the process environment.
type Config struct {
	GitHubToken string
	Keywords    []string
	MinStars    int
	MinForks    int
	OutputFile  string
	CacheFile   string
	NoCache     bool
	DebugMode   bool
}

// Load reads configuration from the environment. Presence of the token
// and keywords is checked later by the commands that need them, so
// commands like version or clearcache work without either.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("OUTPUT_FILE", DefaultOutputFile)
	v.SetDefault("CACHE_FILE", DefaultCacheFile)

	minStars, err := parseCount(v, "MIN_STARS", DefaultMinStars)
	if err != nil {
		return Config{}, err
	}
	minForks, err := parseCount(v, "MIN_FORKS", DefaultMinForks)
	if err != nil {
		return Config{}, err
	}

	debug := v.GetString("DEBUG")
	debugMode := debug != "" && debug != "0" && strings.ToLower(debug) != "false"

	return Config{
		GitHubToken: v.GetString("GITHUB_TOKEN"),
		Keywords:    SplitKeywords(v.GetString("KEYWORDS_ENV")),
		MinStars:    minStars,
		MinForks:    minForks,
		OutputFile:  v.GetString("OUTPUT_FILE"),
		CacheFile:   v.GetString("CACHE_FILE"),
		DebugMode:   debugMode,
	}, nil
}

// SplitKeywords splits a comma-separated keyword list, trimming
// whitespace and dropping empty entries.
func SplitKeywords(s string) []string {
	var keywords []string
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// parseCount reads a non-negative integer setting. The raw string is
// parsed with strconv so a malformed value is a hard error rather than
// silently becoming zero.
func parseCount(v *viper.Viper, key string, def int) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be >= 0, got %d", key, n)
	}
	return n, nil
}
