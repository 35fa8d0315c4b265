package wikipedia

import "encoding/json"

// Wikidata property ids used for book metadata.
const (
	propAuthor      = "P50"
	propPublished   = "P577"
	propInception   = "P571"
	propGenre       = "P136"
	propISBN13      = "P212"
	propISBN10      = "P957"
)

type searchResponse struct {
	Query struct {
		Search []searchHit `json:"search"`
	} `json:"query"`
}

type searchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	PageID  int    `json:"pageid"`
}

type summaryResponse struct {
	Title        string `json:"title"`
	Extract      string `json:"extract"`
	WikibaseItem string `json:"wikibase_item"`
	Thumbnail    struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

type entitiesResponse struct {
	Entities map[string]entity `json:"entities"`
}

type entity struct {
	Claims map[string][]claim          `json:"claims"`
	Labels map[string]map[string]any   `json:"labels"`
}

type claim struct {
	Mainsnak struct {
		Datavalue struct {
			Value json.RawMessage `json:"value"`
			Type  string          `json:"type"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
}

type entityIDValue struct {
	ID string `json:"id"`
}

type timeValue struct {
	Time string `json:"time"`
}
