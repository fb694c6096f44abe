// Package classify derives metadata from repository descriptions:
// recognized technologies, a coarse category, and searchable keywords.
package classify

import (
	"regexp"
	"sort"
	"strings"
)

// techStacks lists the technologies recognized in descriptions.
var techStacks = []string{
	"react", "nextjs", "vue", "angular", "django", "flask", "fastapi",
	"spring", "laravel", "express", "nodejs", "rails", "golang", "rust",
	"flutter",
}

// categories maps category names to the description terms that signal
// them. Ordered so classification is deterministic.
var categories = []struct {
	name  string
	terms []string
}{
	{"ecommerce", []string{"shop", "store", "ecommerce", "cart", "shopify"}},
	{"game", []string{"game", "gaming", "unity", "unreal", "godot"}},
	{"ai", []string{"ai", "ml", "deep learning", "neural network", "chatbot"}},
	{"saas", []string{"saas", "subscription", "platform", "cloud"}},
	{"devtools", []string{"framework", "cli", "sdk", "api", "devtools"}},
	{"social", []string{"social", "chat", "messenger", "forum", "community"}},
}

var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9\-]+`)

// TechStack returns the recognized technologies mentioned in the
// description, in techStacks order.
func TechStack(description string) []string {
	matches := []string{}
	lower := strings.ToLower(description)
	for _, tech := range techStacks {
		if strings.Contains(lower, tech) {
			matches = append(matches, tech)
		}
	}
	return matches
}

// Category returns the first category whose terms appear in the
// description, or "other".
func Category(description string) string {
	lower := strings.ToLower(description)
	for _, c := range categories {
		for _, term := range c.terms {
			if strings.Contains(lower, term) {
				return c.name
			}
		}
	}
	return "other"
}

// Keywords extracts the unique alphanumeric tokens from the
// description, lowercased and sorted.
func Keywords(description string) []string {
	seen := make(map[string]bool)
	keywords := []string{}
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(description), -1) {
		if !seen[tok] {
			seen[tok] = true
			keywords = append(keywords, tok)
		}
	}
	sort.Strings(keywords)
	return keywords
}
