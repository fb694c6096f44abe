package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gh "github.com/google/go-github/v68/github"
	"go.uber.org/zap"

	"github.com/repominer/repominer/internal/cache"
	"github.com/repominer/repominer/internal/config"
	"github.com/repominer/repominer/internal/export"
	ghub "github.com/repominer/repominer/internal/github"
)

// mockClient implements ghub.Client for testing commands.
type mockClient struct {
	searchRepositoriesFn func(ctx context.Context, query string, opts *gh.SearchOptions) (*gh.RepositoriesSearchResult, *gh.Response, error)
}

func (m *mockClient) SearchRepositories(ctx context.Context, query string, opts *gh.SearchOptions) (*gh.RepositoriesSearchResult, *gh.Response, error) {
	return m.searchRepositoriesFn(ctx, query, opts)
}

func makeRepository(id int64, owner, name string, stars, forks int) *gh.Repository {
	return &gh.Repository{
		ID:              gh.Ptr(id),
		Owner:           &gh.User{Login: gh.Ptr(owner)},
		Name:            gh.Ptr(name),
		HTMLURL:         gh.Ptr("https://github.com/" + owner + "/" + name),
		StargazersCount: gh.Ptr(stars),
		ForksCount:      gh.Ptr(forks),
	}
}

func newTestApp(client ghub.Client) *App {
	return &App{
		Config: config.Config{
			Keywords: []string{"deepseek"},
			MinStars: 10,
			MinForks: 10,
			NoCache:  true,
		},
		Cache:    cache.New(),
		GHClient: client,
		Log:      zap.NewNop(),
		GitSHA:   "abc1234",
	}
}

func defaultMockClient() *mockClient {
	return &mockClient{
		searchRepositoriesFn: func(_ context.Context, _ string, _ *gh.SearchOptions) (*gh.RepositoriesSearchResult, *gh.Response, error) {
			return &gh.RepositoriesSearchResult{
				Repositories: []*gh.Repository{
					makeRepository(1, "alice", "deepseek-client", 120, 30),
					makeRepository(2, "bob", "deepseek-tools", 50, 12),
				},
			}, &gh.Response{}, nil
		},
	}
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := app.NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// --- Version ---

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, newTestApp(nil), "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "abc1234") {
		t.Errorf("expected SHA in output, got:\n%s", out)
	}
	if strings.Contains(out, "Dirty") {
		t.Error("expected no dirty flag when GitDirty is empty")
	}
}

// --- ClearCache ---

func TestClearCacheCommand(t *testing.T) {
	app := newTestApp(nil)
	app.Config.CacheFile = filepath.Join(t.TempDir(), "cache.gob")
	app.Config.NoCache = false
	app.Cache.Set("key", "val")

	out, err := execute(t, app, "clearcache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache cleared") {
		t.Errorf("expected 'Cache cleared', got:\n%s", out)
	}
	if _, found := app.Cache.Get("key"); found {
		t.Error("cache should be flushed")
	}
}

// --- Search ---

func TestSearchCommand(t *testing.T) {
	out, err := execute(t, newTestApp(defaultMockClient()), "search")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Total unique repositories found: 2") {
		t.Errorf("expected repo count, got:\n%s", out)
	}
}

func TestSearchCommand_Verbose(t *testing.T) {
	out, err := execute(t, newTestApp(defaultMockClient()), "search", "--verbose")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "alice/deepseek-client,120,30") {
		t.Errorf("expected repo listing, got:\n%s", out)
	}
}

func TestSearchCommand_MissingToken(t *testing.T) {
	app := newTestApp(nil) // no client; ensureClient checks the token
	_, err := execute(t, app, "search")
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestSearchCommand_KeywordFlagOverride(t *testing.T) {
	var gotQuery string
	client := &mockClient{
		searchRepositoriesFn: func(_ context.Context, query string, _ *gh.SearchOptions) (*gh.RepositoriesSearchResult, *gh.Response, error) {
			gotQuery = query
			return &gh.RepositoriesSearchResult{}, &gh.Response{}, nil
		},
	}

	_, err := execute(t, newTestApp(client), "search", "--keywords", "llama", "--min-stars", "50")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(gotQuery, "llama ") {
		t.Errorf("expected keyword override in query, got %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "stars:>=50") {
		t.Errorf("expected min-stars override in query, got %q", gotQuery)
	}
}

// --- Export ---

func TestExportCommand_WritesFile(t *testing.T) {
	app := newTestApp(defaultMockClient())
	path := filepath.Join(t.TempDir(), "results", "data.json")
	app.Config.OutputFile = path

	out, err := execute(t, app, "export")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Exported 2 repositories") {
		t.Errorf("expected export summary, got:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var records []export.Record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, r := range records {
		if r.Stars < 10 || r.Forks < 10 {
			t.Errorf("under-threshold record exported: %+v", r)
		}
	}
	// Stars descending.
	if records[0].Name != "deepseek-client" {
		t.Errorf("first record = %s, want deepseek-client", records[0].Name)
	}
}

func TestExportCommand_Stdout(t *testing.T) {
	out, err := execute(t, newTestApp(defaultMockClient()), "export", "--stdout")
	if err != nil {
		t.Fatal(err)
	}
	var records []export.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("stdout is not a JSON record array: %v\n%s", err, out)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestExportCommand_MissingToken(t *testing.T) {
	app := newTestApp(nil)
	path := filepath.Join(t.TempDir(), "data.json")
	app.Config.OutputFile = path

	_, err := execute(t, app, "export")
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no output file should be written on auth failure")
	}
}

func TestExportCommand_OutputFlagOverride(t *testing.T) {
	app := newTestApp(defaultMockClient())
	app.Config.OutputFile = filepath.Join(t.TempDir(), "ignored.json")
	path := filepath.Join(t.TempDir(), "override.json")

	_, err := execute(t, app, "export", "--output", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("expected output at override path: %v", statErr)
	}
	if _, statErr := os.Stat(app.Config.OutputFile); !os.IsNotExist(statErr) {
		t.Error("configured path should be untouched when --output is set")
	}
}

// --- ExportJSON (Lambda path) ---

func TestExportJSON(t *testing.T) {
	app := newTestApp(defaultMockClient())
	var buf bytes.Buffer

	if err := app.ExportJSON(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	var records []export.Record
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("output is not a JSON record array: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}
