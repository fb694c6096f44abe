package github

import (
	"encoding/gob"

	gh "github.com/google/go-github/v68/github"
)

func init() {
	gob.Register([]Repo{})
}

// Repo holds the repository metadata the exporter uses.
type Repo struct {
	ID          int64
	Owner       string
	Name        string
	Description string
	URL         string
	Language    string
	Stars       int
	Forks       int
}

// FullName returns the "owner/name" form.
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// NewRepo converts a go-github repository into a Repo.
func NewRepo(r *gh.Repository) Repo {
	return Repo{
		ID:          r.GetID(),
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		Description: r.GetDescription(),
		URL:         r.GetHTMLURL(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
	}
}
