package github

import (
	"context"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

// mockClient implements Client for testing.
type mockClient struct {
	searchRepositoriesFn func(ctx context.Context, query string, opts *gh.SearchOptions) (*gh.RepositoriesSearchResult, *gh.Response, error)
}

func (m *mockClient) SearchRepositories(ctx context.Context, query string, opts *gh.SearchOptions) (*gh.RepositoriesSearchResult, *gh.Response, error) {
	return m.searchRepositoriesFn(ctx, query, opts)
}

// emptyResponse returns a *gh.Response that signals no more pages.
func emptyResponse() *gh.Response {
	return &gh.Response{
		Response: &http.Response{StatusCode: 200},
	}
}

// makeRepository builds a search result repository.
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
