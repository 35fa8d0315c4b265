package cmd

import (
	"fmt"
	"sort"

	"github.com/lepinkainen/athenaeum/internal/cache"
)

// CacheCmd groups cache maintenance subcommands.
type CacheCmd struct {
	Stats CacheStatsCmd `cmd:"" help:"Show row counts per cache table"`
	Clear CacheClearCmd `cmd:"" help:"Clear cache tables"`
}

// CacheStatsCmd prints per-table row counts.
type CacheStatsCmd struct{}

// Run executes the cache stats command.
func (c *CacheStatsCmd) Run() error {
	db, err := cache.Global()
	if err != nil {
		return err
	}

	stats, err := db.Stats()
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(stats))
	for table := range stats {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		fmt.Printf("%-16s %d rows\n", table, stats[table])
	}
	return nil
}

// CacheClearCmd deletes cached rows. Clearing is the only invalidation
// mechanism; cache rows have no TTL.
type CacheClearCmd struct {
	Table string `arg:"" optional:"" help:"Table to clear (default: all tables)"`
}

// Run executes the cache clear command.
func (c *CacheClearCmd) Run() error {
	db, err := cache.Global()
	if err != nil {
		return err
	}

	tables := []string{c.Table}
	if c.Table == "" {
		tables = nil
		for table := range cache.ValidCacheTableNames {
			tables = append(tables, table)
		}
		sort.Strings(tables)
	}

	var total int64
	for _, table := range tables {
		rows, err := db.Clear(table)
		if err != nil {
			return err
		}
		total += rows
	}

	fmt.Printf("Cleared %d cached rows\n", total)
	return nil
}
