// Package cmd implements the athenaeum command line interface.
package cmd

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/athenaeum/internal/config"
)

// CLI represents the complete command structure for the athenaeum application
type CLI struct {
	// Global flags
	LibraryDB     string `help:"Path to library SQLite database file" default:"./library.db"`
	CacheDBFile   string `help:"Path to cache SQLite database file" default:"./cache.db"`
	User          string `help:"Library user name" default:"default"`
	PromptsFile   string `help:"Path to YAML prompt template file"`
	UpdateCovers  bool   `help:"Re-download cover images even if they already exist"`
	NoInteractive bool   `help:"Disable interactive selection (auto-select first candidate)"`

	Add    AddCmd    `cmd:"" help:"Search for a book and add it to the library"`
	List   ListCmd   `cmd:"" help:"List books in the library"`
	Show   ShowCmd   `cmd:"" help:"Show a book and its cached enrichment data"`
	Enrich EnrichCmd `cmd:"" help:"Enrich a library book from external sources"`
	Curate CurateCmd `cmd:"" help:"Seed the curated podcast episode list for a book"`
	Import ImportCmd `cmd:"" help:"Import books from a Goodreads-style CSV export"`
	Export ExportCmd `cmd:"" help:"Export books as markdown notes with cached enrichment"`
	Cache  CacheCmd  `cmd:"" help:"Manage the enrichment cache"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("athenaeum"),
		kong.Description("A personal book library with multi-source enrichment."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("library.dbfile", "./library.db")
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("user", "default")
	viper.SetDefault("grok.model", "grok-3-mini")
	viper.SetDefault("covers.dir", "./covers/")
	viper.SetDefault("notes.dir", "./notes/")

	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("grok.api_key", "GROK_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("youtube.api_key", "YOUTUBE_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	viper.Set("library.dbfile", cli.LibraryDB)
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("user", cli.User)
	viper.Set("prompts.file", cli.PromptsFile)
	viper.Set("covers.update", cli.UpdateCovers)
	viper.Set("nointeractive", cli.NoInteractive)

	// Re-read derived globals now that flags have landed in viper.
	config.InitConfig()
}

func initLogging() {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	slog.SetDefault(slog.New(handler))
}
