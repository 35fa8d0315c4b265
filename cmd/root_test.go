package cmd

import (
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/athenaeum/internal/cache"
	"github.com/lepinkainen/athenaeum/internal/config"
	"github.com/lepinkainen/athenaeum/internal/testutil"
)

// resetCmdState isolates viper, the global cache singleton and adapter
// constructors between tests.
func resetCmdState(t *testing.T) *testutil.TestEnv {
	t.Helper()

	env := testutil.NewTestEnv(t)

	viper.Reset()
	viper.Set("library.dbfile", filepath.Join(env.RootDir(), "library.db"))
	viper.Set("cache.dbfile", filepath.Join(env.RootDir(), "cache.db"))
	viper.Set("user", "tester")
	viper.Set("covers.dir", filepath.Join(env.RootDir(), "covers"))
	config.InitConfig()

	require.NoError(t, cache.ResetGlobal())

	origWikipedia, origITunes, origScholar, origGrok, origYouTube := newWikipedia, newITunes, newScholar, newGrok, newYouTube
	origSelect := selectCandidate
	t.Cleanup(func() {
		newWikipedia, newITunes, newScholar, newGrok, newYouTube = origWikipedia, origITunes, origScholar, origGrok, origYouTube
		selectCandidate = origSelect
		_ = cache.ResetGlobal()
		viper.Reset()
	})

	return env
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("athenaeum"),
		kong.Description("A personal book library with multi-source enrichment."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func TestParseGlobalFlags(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t,
		"--library-db", "/tmp/lib.db",
		"--cache-db-file", "/tmp/cache.db",
		"--user", "alice",
		"--no-interactive",
		"list",
	)

	assert.Equal(t, "list", ctx.Command())
	assert.Equal(t, "/tmp/lib.db", cli.LibraryDB)
	assert.Equal(t, "/tmp/cache.db", cli.CacheDBFile)
	assert.Equal(t, "alice", cli.User)
	assert.True(t, cli.NoInteractive)
}

func TestParseCommands(t *testing.T) {
	resetCmdState(t)

	tests := []struct {
		args    []string
		command string
	}{
		{[]string{"add", "dune"}, "add <query>"},
		{[]string{"list"}, "list"},
		{[]string{"show", "Dune", "Frank Herbert"}, "show <title> <author>"},
		{[]string{"enrich", "Dune", "Frank Herbert"}, "enrich <title> <author>"},
		{[]string{"enrich", "Dune", "Frank Herbert", "--kind", "podcasts"}, "enrich <title> <author>"},
		{[]string{"curate", "Dune", "Frank Herbert"}, "curate <title> <author>"},
		{[]string{"export"}, "export"},
		{[]string{"export", "Dune", "Frank Herbert"}, "export <title> <author>"},
		{[]string{"cache", "stats"}, "cache stats"},
		{[]string{"cache", "clear"}, "cache clear"},
		{[]string{"cache", "clear", "video_cache"}, "cache clear <table>"},
	}

	for _, tt := range tests {
		_, ctx := parseCLI(t, tt.args...)
		assert.Equal(t, tt.command, ctx.Command())
	}
}

func TestParseRejectsUnknownEnrichKind(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"enrich", "Dune", "Frank Herbert", "--kind", "gossip"})
	assert.Error(t, err)
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{
		LibraryDB:     "/tmp/lib.db",
		CacheDBFile:   "/tmp/cache.db",
		User:          "alice",
		UpdateCovers:  true,
		NoInteractive: true,
	}
	updateGlobalConfig(cli)

	assert.Equal(t, "/tmp/lib.db", viper.GetString("library.dbfile"))
	assert.Equal(t, "/tmp/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "alice", viper.GetString("user"))
	assert.True(t, viper.GetBool("covers.update"))
	assert.True(t, viper.GetBool("nointeractive"))
}
