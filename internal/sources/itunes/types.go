package itunes

// The iTunes Search API returns a different result shape per media kind,
// so ebook and podcast-episode lookups each decode their own subset.

type ebookResponse struct {
	ResultCount int           `json:"resultCount"`
	Results     []ebookResult `json:"results"`
}

type ebookResult struct {
	TrackName     string   `json:"trackName"`
	ArtistName    string   `json:"artistName"`
	ReleaseDate   string   `json:"releaseDate"`
	Genres        []string `json:"genres"`
	ArtworkURL100 string   `json:"artworkUrl100"`
	TrackViewURL  string   `json:"trackViewUrl"`
	Description   string   `json:"description"`
}

type episodeResponse struct {
	ResultCount int             `json:"resultCount"`
	Results     []episodeResult `json:"results"`
}

type episodeResult struct {
	TrackName        string `json:"trackName"`
	CollectionName   string `json:"collectionName"`
	CollectionID     int64  `json:"collectionId"`
	TrackViewURL     string `json:"trackViewUrl"`
	EpisodeURL       string `json:"episodeUrl"`
	ReleaseDate      string `json:"releaseDate"`
	TrackTimeMillis  int64  `json:"trackTimeMillis"`
	Description      string `json:"description"`
	ShortDescription string `json:"shortDescription"`
	ArtworkURL160    string `json:"artworkUrl160"`
	ArtworkURL600    string `json:"artworkUrl600"`
}
