// Package prompts manages the prompt templates used by the Grok adapter.
//
// Templates are loaded from an external YAML resource so they can be tuned
// without a rebuild. Built-in fallback templates are compiled in, so
// enrichment never hard-fails purely because the resource is unavailable.
package prompts

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template names recognized by the Grok adapter.
const (
	BookSuggestions = "book_suggestions"
	BookSearch      = "book_search"
	AuthorFacts     = "author_facts"
	PodcastEpisodes = "podcast_episodes"
	RelatedBooks    = "related_books"
)

// fallbackTemplates are the compiled-in defaults used when the external
// resource is missing or fails to parse.
var fallbackTemplates = map[string]string{
	BookSuggestions: "Suggest up to 8 well-known books matching the partial title \"{query}\". " +
		"Respond with a JSON array of objects with keys: title, author.",
	BookSearch: "Find the book best matching \"{query}\". " +
		"Respond with a single JSON object with keys: title, author, year, genre, cover_url. " +
		"Use null for unknown fields.",
	AuthorFacts: "List 5 short, interesting facts about the author {author}. " +
		"Respond with a JSON object: {\"facts\": [\"...\"]}.",
	PodcastEpisodes: "Find real podcast episodes discussing the book \"{title}\" by {author}. " +
		"Respond with a JSON array of objects with keys: title, url, show_name, " +
		"episode_summary, show_summary, platform, length, air_date. " +
		"Only include episodes with a real URL.",
	RelatedBooks: "Recommend 5 books related to \"{title}\" by {author}. " +
		"Respond with a JSON array of objects with keys: title, author, reason, year, genre.",
}

// Set is a named collection of prompt templates.
type Set struct {
	templates map[string]string
}

// Load reads templates from the YAML file at path and merges them over the
// built-in fallbacks. Load never fails: on any error the fallbacks are used
// and the problem is logged.
func Load(path string) *Set {
	set := &Set{templates: make(map[string]string, len(fallbackTemplates))}
	for name, tmpl := range fallbackTemplates {
		set.templates[name] = tmpl
	}

	if path == "" {
		return set
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Prompt template file unavailable, using built-in templates", "path", path, "error", err)
		return set
	}

	var loaded map[string]string
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		slog.Warn("Failed to parse prompt template file, using built-in templates", "path", path, "error", err)
		return set
	}

	for name, tmpl := range loaded {
		if tmpl != "" {
			set.templates[name] = tmpl
		}
	}

	return set
}

// Default returns a Set containing only the built-in templates.
func Default() *Set {
	return Load("")
}

// Render substitutes {variable} placeholders in the named template.
// Unknown variables are left in place so a bad template is visible in logs.
func (s *Set) Render(name string, vars map[string]string) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template: %s", name)
	}

	rendered := tmpl
	for key, value := range vars {
		rendered = strings.ReplaceAll(rendered, "{"+key+"}", value)
	}

	return rendered, nil
}
