package cmd

import (
	"github.com/spf13/viper"

	"github.com/lepinkainen/athenaeum/internal/cache"
	"github.com/lepinkainen/athenaeum/internal/config"
	"github.com/lepinkainen/athenaeum/internal/enrich"
	"github.com/lepinkainen/athenaeum/internal/library"
	"github.com/lepinkainen/athenaeum/internal/prompts"
	"github.com/lepinkainen/athenaeum/internal/sources/grok"
	"github.com/lepinkainen/athenaeum/internal/sources/itunes"
	"github.com/lepinkainen/athenaeum/internal/sources/scholar"
	"github.com/lepinkainen/athenaeum/internal/sources/wikipedia"
	"github.com/lepinkainen/athenaeum/internal/sources/youtube"
)

// Adapter constructors, overridable in tests.
var (
	newWikipedia = func() *wikipedia.Client { return wikipedia.NewClient() }
	newITunes    = func() *itunes.Client { return itunes.NewClient() }
	newScholar   = func() *scholar.Client { return scholar.NewClient() }
	newGrok      = func() *grok.Client {
		return grok.NewClient(config.GrokAPIKey,
			grok.WithModel(config.GrokModel),
			grok.WithTemplates(prompts.Load(viper.GetString("prompts.file"))),
		)
	}
	newYouTube = func() *youtube.Client { return youtube.NewClient(config.YouTubeAPIKey) }
)

func openLibrary() (*library.Store, error) {
	return library.Open(viper.GetString("library.dbfile"))
}

// newEnrichService wires every source adapter into the orchestrator.
func newEnrichService(store *library.Store) (*enrich.Service, error) {
	db, err := cache.Global()
	if err != nil {
		return nil, err
	}

	grokClient := newGrok()
	itunesClient := newITunes()

	return enrich.NewService(enrich.Config{
		Cache:   db,
		Curated: store,
		Legacy:  store,
		Apple:   itunesClient,
		Scholar: newScholar(),
		Facts:   grokClient,
		Related: grokClient,
		Videos:  newYouTube(),
		Covers:  itunesClient,
		User:    viper.GetString("user"),
	}), nil
}
