package cmd

import (
	"context"
	"fmt"
)

// CurateCmd asks Grok for podcast episodes about a book and seeds the
// curated episode list with them. Curated episodes take priority over
// live Apple results during enrichment.
type CurateCmd struct {
	Title  string `arg:"" help:"Book title"`
	Author string `arg:"" help:"Book author"`
}

// Run executes the curate command.
func (c *CurateCmd) Run() error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	episodes := newGrok().PodcastEpisodes(context.Background(), c.Title, c.Author)
	if len(episodes) == 0 {
		fmt.Println("No episodes found.")
		return nil
	}

	added := 0
	for _, ep := range episodes {
		if err := store.AddCuratedEpisode(c.Title, c.Author, ep); err != nil {
			return err
		}
		added++
	}

	fmt.Printf("Curated %d episodes for %q\n", added, c.Title)
	return nil
}
