// Package bookid provides canonical book identity generation and
// list deduplication helpers shared by the cache and enrichment layers.
package bookid

import "strings"

// Normalize lowercases a string, trims surrounding whitespace and
// collapses internal whitespace runs to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// CanonicalID builds the canonical identity key for a (title, author) pair.
// The "|" separator is not expected to appear in real titles, so two books
// produce the same key exactly when their normalized title and author match.
func CanonicalID(title, author string) string {
	return Normalize(title) + "|" + Normalize(author)
}

// DedupBy removes duplicates from items using the key function,
// keeping the first occurrence of each key and preserving order.
// Items with an empty key are dropped.
func DedupBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]bool, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, item)
	}
	return result
}
