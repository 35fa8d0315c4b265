// Package cache implements the persistent enrichment cache.
//
// Rows are keyed by canonical book identity and never expire on read;
// invalidation happens only through an explicit clear. An existing row with
// an empty payload is a valid state meaning "we already tried and found
// nothing" and is distinct from "no row", which signals a fetch is needed.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

// DB manages the SQLite database connection for the enrichment cache.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

var (
	globalCache     *DB
	globalCacheOnce sync.Once
)

// ResetGlobal closes the current global cache and resets the singleton
// so the next call to Global will create a new instance.
// This is primarily for testing purposes.
func ResetGlobal() error {
	if globalCache != nil {
		if err := globalCache.Close(); err != nil {
			return err
		}
	}
	globalCache = nil
	globalCacheOnce = sync.Once{}
	return nil
}

// Global returns the singleton cache database instance.
func Global() (*DB, error) {
	var initErr error
	globalCacheOnce.Do(func() {
		dbPath := viper.GetString("cache.dbfile")
		if dbPath == "" {
			dbPath = "./cache.db"
		}
		globalCache, initErr = Open(dbPath)
	})
	if initErr != nil {
		return nil, initErr
	}
	return globalCache, nil
}

// Open creates a DB instance, opens the database connection and
// initializes all cache tables.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	c := &DB{db: db, path: dbPath}
	for _, schema := range AllCacheSchemas {
		if _, err := db.Exec(schema); err != nil {
			closeErr := db.Close()
			return nil, errors.Join(fmt.Errorf("failed to create cache table: %w", err), closeErr)
		}
	}

	return c, nil
}

// Close closes the database connection.
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func validateTableName(tableName string) error {
	if !ValidCacheTableNames[tableName] {
		return fmt.Errorf("invalid cache table name: %s", tableName)
	}
	return nil
}

// Get retrieves a cached payload from an unpartitioned table.
// "No row" is reported as found=false with a nil error; it is a normal
// empty-cache signal, not a failure.
func (c *DB) Get(tableName, key string) (string, bool, error) {
	return c.GetPartition(tableName, key, "")
}

// GetPartition retrieves a cached payload for one source partition.
// For unpartitioned tables source must be empty.
func (c *DB) GetPartition(tableName, key, source string) (string, bool, error) {
	if err := validateTableName(tableName); err != nil {
		return "", false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var data string
	var err error
	if partitionedTables[tableName] {
		query := fmt.Sprintf("SELECT data FROM %s WHERE cache_key = ? AND source = ?", tableName)
		err = c.db.QueryRow(query, key, source).Scan(&data)
	} else {
		if source != "" {
			return "", false, fmt.Errorf("table %s is not partitioned by source", tableName)
		}
		query := fmt.Sprintf("SELECT data FROM %s WHERE cache_key = ?", tableName)
		err = c.db.QueryRow(query, key).Scan(&data)
	}

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query cache: %w", err)
	}

	return data, true, nil
}

// Save stores a payload in an unpartitioned table using check-then-upsert.
func (c *DB) Save(tableName, key, data string) error {
	return c.SavePartition(tableName, key, "", data)
}

// SavePartition stores a payload for one source partition.
//
// The write is an explicit check-then-upsert: look up the row, update if
// present, insert if absent. Two sessions racing on the same key can both
// pass the check; the resulting unique-constraint error is logged and
// swallowed, accepting last-write-wins semantics.
func (c *DB) SavePartition(tableName, key, source, data string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	if source != "" && !partitionedTables[tableName] {
		return fmt.Errorf("table %s is not partitioned by source", tableName)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var exists int
	var err error
	if partitionedTables[tableName] {
		query := fmt.Sprintf("SELECT 1 FROM %s WHERE cache_key = ? AND source = ? LIMIT 1", tableName)
		err = c.db.QueryRow(query, key, source).Scan(&exists)
	} else {
		query := fmt.Sprintf("SELECT 1 FROM %s WHERE cache_key = ? LIMIT 1", tableName)
		err = c.db.QueryRow(query, key).Scan(&exists)
	}

	switch {
	case err == nil:
		if partitionedTables[tableName] {
			query := fmt.Sprintf("UPDATE %s SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE cache_key = ? AND source = ?", tableName)
			_, err = c.db.Exec(query, data, key, source)
		} else {
			query := fmt.Sprintf("UPDATE %s SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE cache_key = ?", tableName)
			_, err = c.db.Exec(query, data, key)
		}
		if err != nil {
			return fmt.Errorf("failed to update cache: %w", err)
		}
		return nil

	case err == sql.ErrNoRows:
		if partitionedTables[tableName] {
			query := fmt.Sprintf("INSERT INTO %s (cache_key, source, data) VALUES (?, ?, ?)", tableName)
			_, err = c.db.Exec(query, key, source, data)
		} else {
			query := fmt.Sprintf("INSERT INTO %s (cache_key, data) VALUES (?, ?)", tableName)
			_, err = c.db.Exec(query, key, data)
		}
		if err != nil {
			if isUniqueViolation(err) {
				// Lost a check-then-insert race with a concurrent writer.
				slog.Warn("Concurrent cache write detected, keeping existing row", "table", tableName, "key", key)
				return nil
			}
			return fmt.Errorf("failed to insert cache row: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("failed to check cache row: %w", err)
	}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Clear removes all cache entries from the specified table and returns
// the number of rows deleted.
func (c *DB) Clear(tableName string) (int64, error) {
	if err := validateTableName(tableName); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Info("Cache table cleared", "table", tableName, "rows_deleted", rows)
	return rows, nil
}

// Stats returns the row count per cache table.
func (c *DB) Stats() (map[string]int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make(map[string]int64, len(ValidCacheTableNames))
	for table := range ValidCacheTableNames {
		var count int64
		if err := c.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}

// GetList reads a cached list from an unpartitioned table.
// Any read or unmarshal error is logged and reported as a cache miss so
// enrichment falls back to fetching instead of failing.
func GetList[T any](c *DB, tableName, key string) ([]T, bool) {
	return GetListPartition[T](c, tableName, key, "")
}

// GetListPartition reads a cached list from one source partition.
func GetListPartition[T any](c *DB, tableName, key, source string) ([]T, bool) {
	data, found, err := c.GetPartition(tableName, key, source)
	if err != nil {
		slog.Warn("Cache read failed, treating as miss", "table", tableName, "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var items []T
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		slog.Warn("Failed to unmarshal cached data, treating as miss", "table", tableName, "key", key, "error", err)
		return nil, false
	}

	// A found row with an empty list is a valid "tried and found nothing"
	// state; found=true lets callers suppress a refetch.
	return items, true
}

// SaveList marshals and stores a list in an unpartitioned table.
func SaveList[T any](c *DB, tableName, key string, items []T) error {
	return SaveListPartition(c, tableName, key, "", items)
}

// SaveListPartition marshals and stores a list for one source partition.
// A nil list is stored as an empty array so the cached-empty state
// round-trips.
func SaveListPartition[T any](c *DB, tableName, key, source string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}
	return c.SavePartition(tableName, key, source, string(data))
}
