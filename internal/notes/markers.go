package notes

import "strings"

const (
	// EnrichmentStart marks the beginning of the managed enrichment block.
	EnrichmentStart = "<!-- ATHENAEUM_DATA_START -->"
	// EnrichmentEnd marks the end of the managed enrichment block.
	EnrichmentEnd = "<!-- ATHENAEUM_DATA_END -->"
)

// HasEnrichmentMarkers reports whether a note body contains a managed block.
func HasEnrichmentMarkers(body string) bool {
	return strings.Contains(body, EnrichmentStart) && strings.Contains(body, EnrichmentEnd)
}

// EnrichmentContent extracts the content between the markers.
func EnrichmentContent(body string) (string, bool) {
	startIdx := strings.Index(body, EnrichmentStart)
	endIdx := strings.Index(body, EnrichmentEnd)
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return "", false
	}
	return strings.TrimSpace(body[startIdx+len(EnrichmentStart) : endIdx]), true
}

// UpsertEnrichment replaces the managed block with new content, or appends
// one when the body has no markers yet. Content outside the markers is
// preserved verbatim modulo surrounding whitespace.
func UpsertEnrichment(body, content string) string {
	block := wrapWithMarkers(content)

	if !HasEnrichmentMarkers(body) {
		if strings.TrimSpace(body) == "" {
			return block
		}
		return strings.TrimSpace(body) + "\n\n" + block
	}

	startIdx := strings.Index(body, EnrichmentStart)
	endIdx := strings.Index(body, EnrichmentEnd)
	if endIdx <= startIdx {
		return body
	}

	before := strings.TrimSpace(body[:startIdx])
	after := strings.TrimSpace(body[endIdx+len(EnrichmentEnd):])

	var builder strings.Builder
	if before != "" {
		builder.WriteString(before)
		builder.WriteString("\n\n")
	}
	builder.WriteString(block)
	if after != "" {
		builder.WriteString("\n\n")
		builder.WriteString(after)
	}
	return builder.String()
}

func wrapWithMarkers(content string) string {
	var builder strings.Builder
	builder.WriteString(EnrichmentStart)
	builder.WriteString("\n")
	builder.WriteString(strings.TrimSpace(content))
	builder.WriteString("\n")
	builder.WriteString(EnrichmentEnd)
	return builder.String()
}
