package cache

import (
	"path/filepath"
	"testing"

	"github.com/lepinkainen/athenaeum/internal/models"
	"github.com/lepinkainen/athenaeum/internal/testutil"
)

func setupTestCache(t *testing.T) *DB {
	t.Helper()

	env := testutil.NewTestEnv(t)
	dbPath := filepath.Join(env.RootDir(), "cache.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open cache database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestGetMissingRow(t *testing.T) {
	db := setupTestCache(t)

	data, found, err := db.Get("scholar_cache", "dune|frank herbert")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected found=false for missing row")
	}
	if data != "" {
		t.Errorf("expected empty data, got %q", data)
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	db := setupTestCache(t)

	key := "dune|frank herbert"
	if err := db.Save("scholar_cache", key, `[{"title":"Ecology in Dune"}]`); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, found, err := db.Get("scholar_cache", key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found {
		t.Fatal("expected found=true after save")
	}
	if data != `[{"title":"Ecology in Dune"}]` {
		t.Errorf("unexpected payload: %q", data)
	}
}

func TestSaveUpdatesExistingRow(t *testing.T) {
	db := setupTestCache(t)

	key := "dune|frank herbert"
	if err := db.Save("facts_cache", key, `["first"]`); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := db.Save("facts_cache", key, `["second"]`); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	data, found, _ := db.Get("facts_cache", key)
	if !found || data != `["second"]` {
		t.Errorf("expected updated payload, got found=%v data=%q", found, data)
	}
}

func TestCachedEmptyListDistinctFromMissing(t *testing.T) {
	db := setupTestCache(t)

	key := "obscure book|nobody"

	// No row at all: miss, should trigger a fetch.
	_, found := GetList[models.Article](db, "scholar_cache", key)
	if found {
		t.Fatal("expected miss before any save")
	}

	// Explicitly cached empty list: found, suppresses refetch.
	if err := SaveList(db, "scholar_cache", key, []models.Article{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	items, found := GetList[models.Article](db, "scholar_cache", key)
	if !found {
		t.Fatal("expected found=true for cached empty list")
	}
	if len(items) != 0 {
		t.Errorf("expected empty list, got %d items", len(items))
	}
}

func TestSaveListNilStoredAsEmptyArray(t *testing.T) {
	db := setupTestCache(t)

	if err := SaveList[models.Article](db, "scholar_cache", "k|a", nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, found, _ := db.Get("scholar_cache", "k|a")
	if !found || data != "[]" {
		t.Errorf("expected empty array payload, got found=%v data=%q", found, data)
	}
}

func TestPodcastPartitions(t *testing.T) {
	db := setupTestCache(t)

	key := "dune|frank herbert"
	curated := []models.PodcastEpisode{{Title: "Deep dive", URL: "https://example.com/a", EpisodeSummary: "s", ShowSummary: "ss"}}
	apple := []models.PodcastEpisode{{Title: "Apple find", URL: "https://example.com/b", EpisodeSummary: "s", ShowSummary: "ss"}}

	if err := SaveListPartition(db, "podcast_cache", key, models.SourceCurated, curated); err != nil {
		t.Fatalf("save curated failed: %v", err)
	}
	if err := SaveListPartition(db, "podcast_cache", key, models.SourceApple, apple); err != nil {
		t.Fatalf("save apple failed: %v", err)
	}

	gotCurated, found := GetListPartition[models.PodcastEpisode](db, "podcast_cache", key, models.SourceCurated)
	if !found || len(gotCurated) != 1 || gotCurated[0].URL != "https://example.com/a" {
		t.Errorf("unexpected curated partition: found=%v %+v", found, gotCurated)
	}

	gotApple, found := GetListPartition[models.PodcastEpisode](db, "podcast_cache", key, models.SourceApple)
	if !found || len(gotApple) != 1 || gotApple[0].URL != "https://example.com/b" {
		t.Errorf("unexpected apple partition: found=%v %+v", found, gotApple)
	}

	// The legacy partition was never written.
	_, found = GetListPartition[models.PodcastEpisode](db, "podcast_cache", key, models.SourceLegacy)
	if found {
		t.Error("expected legacy partition to be missing")
	}
}

func TestInvalidTableName(t *testing.T) {
	db := setupTestCache(t)

	if _, _, err := db.Get("books; DROP TABLE books", "k"); err == nil {
		t.Error("expected error for invalid table name")
	}
	if err := db.Save("unknown_cache", "k", "[]"); err == nil {
		t.Error("expected error for invalid table name")
	}
}

func TestSourceRejectedForUnpartitionedTable(t *testing.T) {
	db := setupTestCache(t)

	if err := db.SavePartition("scholar_cache", "k", "curated", "[]"); err == nil {
		t.Error("expected error when passing source for unpartitioned table")
	}
}

func TestClearAndStats(t *testing.T) {
	db := setupTestCache(t)

	if err := db.Save("video_cache", "a|b", "[]"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := db.Save("video_cache", "c|d", "[]"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats["video_cache"] != 2 {
		t.Errorf("expected 2 video rows, got %d", stats["video_cache"])
	}

	deleted, err := db.Clear("video_cache")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted rows, got %d", deleted)
	}

	_, found, _ := db.Get("video_cache", "a|b")
	if found {
		t.Error("expected row gone after clear")
	}
}
