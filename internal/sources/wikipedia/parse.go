package wikipedia

import (
	"regexp"
	"strings"
	"unicode"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// DetectLang picks the Wikipedia language edition for a query:
// Hebrew script anywhere in the query selects the Hebrew edition,
// otherwise the English edition is used.
func DetectLang(query string) string {
	for _, r := range query {
		if unicode.Is(unicode.Hebrew, r) {
			return "he"
		}
	}
	return "en"
}

// yearFromClaim extracts a 4-digit year from a Wikidata time string
// like "+1965-08-01T00:00:00Z".
func yearFromClaim(t string) string {
	return yearPattern.FindString(t)
}

// firstWord returns the first word of a genre label. Wikidata genre
// labels can be verbose ("science fiction novel"); only the leading
// word is kept.
func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// authorFromExtract is the fallback author heuristic used when a page has
// no linked Wikidata entity: take the text after the first " by " in the
// page extract, cut at the first parenthesis, and trim trailing
// punctuation. It is naive on purpose; Wikidata is the real source.
func authorFromExtract(extract string) string {
	idx := strings.Index(extract, " by ")
	if idx < 0 {
		return ""
	}
	rest := extract[idx+len(" by "):]

	if paren := strings.IndexByte(rest, '('); paren >= 0 {
		rest = rest[:paren]
	}
	if cut := strings.IndexAny(rest, ".,;"); cut >= 0 {
		rest = rest[:cut]
	}

	return strings.TrimSpace(rest)
}

// keyword hints per language used to disambiguate single-result lookups.
var (
	titleHints = map[string][]string{
		"en": {"(book)", "(novel)"},
		"he": {"(ספר)", "(רומן)"},
	}
	snippetHints = map[string][]string{
		"en": {"novel", "memoir", "biography"},
		"he": {"רומן", "ספר", "ביוגרפיה"},
	}
)

// pickCandidate chooses the most book-like search hit: first a title
// containing a language-specific book marker, then a snippet mentioning a
// book-ish word, then the first hit.
func pickCandidate(lang string, hits []searchHit) *searchHit {
	if len(hits) == 0 {
		return nil
	}

	for i, hit := range hits {
		lower := strings.ToLower(hit.Title)
		for _, hint := range titleHints[lang] {
			if strings.Contains(lower, hint) {
				return &hits[i]
			}
		}
	}

	for i, hit := range hits {
		lower := strings.ToLower(hit.Snippet)
		for _, hint := range snippetHints[lang] {
			if strings.Contains(lower, hint) {
				return &hits[i]
			}
		}
	}

	return &hits[0]
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// stripMarkup removes the search-highlight HTML tags MediaWiki embeds in
// result snippets.
func stripMarkup(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}
