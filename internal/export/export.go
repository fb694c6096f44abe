// Package export serializes search results to the JSON output file.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/repominer/repominer/internal/classify"
	"github.com/repominer/repominer/internal/github"
)

// Record is the exported JSON shape for one repository.
type Record struct {
	Name        string   `json:"name"`
	Owner       string   `json:"owner"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Language    string   `json:"language"`
	TechStack   []string `json:"tech_stack"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
}

// FromRepo builds a Record, classifying the repository description.
func FromRepo(r github.Repo) Record {
	return Record{
		Name:        r.Name,
		Owner:       r.Owner,
		URL:         r.URL,
		Description: r.Description,
		Stars:       r.Stars,
		Forks:       r.Forks,
		Language:    r.Language,
		TechStack:   classify.TechStack(r.Description),
		Keywords:    classify.Keywords(r.Description),
		Category:    classify.Category(r.Description),
	}
}

// FromRepos converts a slice of repositories, preserving order.
func FromRepos(repos []github.Repo) []Record {
	records := make([]Record, 0, len(repos))
	for _, r := range repos {
		records = append(records, FromRepo(r))
	}
	return records
}

// WriteFile writes records as indented JSON to path, creating parent
// directories as needed. When the file already exists its records are
// kept and new records are appended, deduplicated by URL, so repeated
// runs with identical inputs produce identical bytes.
func WriteFile(path string, records []Record) error {
	existing, err := readExisting(path)
	if err != nil {
		return err
	}

	urls := make(map[string]bool, len(existing))
	for _, r := range existing {
		urls[r.URL] = true
	}
	merged := existing
	for _, r := range records {
		if !urls[r.URL] {
			urls[r.URL] = true
			merged = append(merged, r)
		}
	}
	if merged == nil {
		merged = []Record{}
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

func readExisting(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading existing output file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("existing output file is not a JSON record array: %w", err)
	}
	return records, nil
}
