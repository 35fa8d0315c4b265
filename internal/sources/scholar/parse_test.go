package scholar

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const resultsPage = `<html><body>
<div class="gs_r gs_or">
  <div class="gs_ri">
    <h3 class="gs_rt"><a href="/url?q=https://example.edu/dune-paper.pdf&amp;sa=U">Ecology and empire in <b>Dune</b></a></h3>
    <div class="gs_a">J Smith, R Jones - Science Fiction Studies, 1992 - jstor.org</div>
    <div class="gs_rs">This paper examines the ecological themes of Herbert&#39;s novel…</div>
  </div>
</div>
<div class="gs_r gs_or">
  <div class="gs_ri">
    <h3 class="gs_rt"><a href="https://example.org/messianism.html">Messianism in Herbert</a></h3>
    <div class="gs_a">A Author - Journal of Things, 2004</div>
  </div>
</div>
<div class="gs_r gs_or">
  <div class="gs_ri">
    <h3 class="gs_rt"><a href="https://scholar.google.com/scholar?cites=123">Cited by 99</a></h3>
  </div>
</div>
</body></html>`

func TestParseResults(t *testing.T) {
	articles := parseResults(resultsPage)

	assert.Equal(t, 2, len(articles))

	first := articles[0]
	assert.Equal(t, "Ecology and empire in Dune", first.Title)
	assert.Equal(t, "https://example.edu/dune-paper.pdf", first.URL)
	assert.Equal(t, "J Smith, R Jones", first.Authors)
	assert.Equal(t, "1992", first.Year)
	assert.True(t, strings.Contains(first.Snippet, "ecological themes"))

	second := articles[1]
	assert.Equal(t, "Messianism in Herbert", second.Title)
	assert.Equal(t, "2004", second.Year)
}

func TestParseResultsH3Fallback(t *testing.T) {
	page := `<html><body>
	<h3><a href="https://example.org/paper">Some paper title</a></h3>
	<h3><a href="/relative/link">Skipped relative</a></h3>
	</body></html>`

	articles := parseResults(page)

	assert.Equal(t, 1, len(articles))
	assert.Equal(t, "Some paper title", articles[0].Title)
	assert.Equal(t, "https://example.org/paper", articles[0].URL)
}

func TestParseResultsEmptyPage(t *testing.T) {
	assert.Equal(t, 0, len(parseResults("<html><body>Please show you're not a robot</body></html>")))
}

func TestResolveLink(t *testing.T) {
	assert.Equal(t, "https://x.example/a", resolveLink("/url?q=https://x.example/a&sa=U"))
	assert.Equal(t, "https://x.example/b", resolveLink("https://x.example/b"))
	assert.Equal(t, "", resolveLink("javascript:void(0)"))
	assert.Equal(t, "", resolveLink("/relative"))
}

func TestIsScholarSearchURL(t *testing.T) {
	assert.True(t, isScholarSearchURL("https://scholar.google.com/scholar?cites=1"))
	assert.True(t, isScholarSearchURL("https://scholar.google.com/citations?user=x"))
	assert.False(t, isScholarSearchURL("https://example.edu/paper.pdf"))
}

func TestCapSnippet(t *testing.T) {
	short := "a short snippet"
	assert.Equal(t, short, capSnippet(short))

	long := strings.Repeat("word ", 60)
	capped := capSnippet(long)
	assert.True(t, strings.HasSuffix(capped, "…"))
	assert.True(t, len([]rune(capped)) <= maxSnippetLen+1)
}
