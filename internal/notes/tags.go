package notes

import (
	"regexp"
	"sort"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	hyphenRunRe  = regexp.MustCompile(`-+`)
)

// NormalizeTag normalizes a tag for frontmatter use: strip a leading #,
// replace & with "and", convert whitespace to hyphens, collapse hyphen
// runs and trim. Case is preserved; / stays for tag hierarchies.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return ""
	}

	tag = strings.ReplaceAll(tag, "&", "and")
	tag = strings.ReplaceAll(tag, "#", "")
	tag = whitespaceRe.ReplaceAllString(tag, "-")
	tag = hyphenRunRe.ReplaceAllString(tag, "-")
	return strings.Trim(tag, "-")
}

// NormalizeTags normalizes a tag list, dropping empty results and
// duplicates. The result is sorted.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := NormalizeTag(tag)
		if normalized != "" && !seen[normalized] {
			seen[normalized] = true
			result = append(result, normalized)
		}
	}
	sort.Strings(result)
	return result
}
