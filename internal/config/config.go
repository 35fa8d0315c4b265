package config

import (
	"strings"

	"github.com/spf13/viper"
)

// minKeyLength is the soft gate for API keys: anything shorter is treated
// as a placeholder. This is a heuristic, not a credential check.
const minKeyLength = 20

// Global configuration variables
var (
	// GrokAPIKey is the API key for the Grok (xAI) chat completions endpoint
	GrokAPIKey string
	// GrokModel is the model name used for Grok requests
	GrokModel string
	// YouTubeAPIKey is the API key for the YouTube Data API v3
	YouTubeAPIKey string
	// CoversDir is the directory where cover thumbnails are stored
	CoversDir string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("grok.model", "grok-3-mini")
	viper.SetDefault("covers.dir", "./covers/")

	// Get values from viper
	GrokAPIKey = viper.GetString("grok.api_key")
	GrokModel = viper.GetString("grok.model")
	YouTubeAPIKey = viper.GetString("youtube.api_key")
	CoversDir = viper.GetString("covers.dir")
}

// HasUsableKey reports whether an API key looks usable: present and not
// trivially short. A passing key may still be rejected upstream.
func HasUsableKey(key string) bool {
	return len(strings.TrimSpace(key)) >= minKeyLength
}
