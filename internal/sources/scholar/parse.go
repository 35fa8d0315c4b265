package scholar

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/lepinkainen/athenaeum/internal/models"
)

const maxSnippetLen = 200

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// parseResults extracts articles from a Scholar results page. Scholar's
// markup shifts over time, so three strategies are tried in order: the
// current gs_ri result body, the older gs_r wrapper, and finally bare h3
// anchors.
func parseResults(body string) []models.Article {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	for _, class := range []string{"gs_ri", "gs_r"} {
		nodes := nodesWithClass(doc, "div", class)
		if articles := articlesFromNodes(nodes); len(articles) > 0 {
			return articles
		}
	}

	// Last resort: any h3 with a link.
	var articles []models.Article
	for _, h3 := range elements(doc, "h3") {
		if a := firstElement(h3, "a"); a != nil {
			if article, ok := articleFromAnchor(h3, a); ok {
				articles = append(articles, article)
			}
		}
	}
	return articles
}

func articlesFromNodes(nodes []*html.Node) []models.Article {
	var articles []models.Article
	for _, node := range nodes {
		h3 := firstElement(node, "h3")
		if h3 == nil {
			continue
		}
		a := firstElement(h3, "a")
		if a == nil {
			continue
		}

		article, ok := articleFromAnchor(h3, a)
		if !ok {
			continue
		}

		if meta := firstWithClass(node, "div", "gs_a"); meta != nil {
			text := textContent(meta)
			article.Authors = authorsFromMeta(text)
			article.Year = yearPattern.FindString(text)
		}
		if snippet := firstWithClass(node, "div", "gs_rs"); snippet != nil {
			article.Snippet = capSnippet(textContent(snippet))
		}

		articles = append(articles, article)
	}
	return articles
}

func articleFromAnchor(h3, a *html.Node) (models.Article, bool) {
	link := resolveLink(attr(a, "href"))
	if link == "" || isScholarSearchURL(link) {
		return models.Article{}, false
	}

	title := strings.TrimSpace(textContent(h3))
	if title == "" {
		return models.Article{}, false
	}

	return models.Article{Title: title, URL: link}, true
}

// resolveLink unwraps Scholar's /url?q= redirect and drops relative or
// javascript links.
func resolveLink(href string) string {
	if strings.HasPrefix(href, "/url?") {
		if u, err := url.Parse(href); err == nil {
			href = u.Query().Get("q")
		}
	}
	if !strings.HasPrefix(href, "http") {
		return ""
	}
	return href
}

// isScholarSearchURL reports whether a link still points back into
// Scholar's own search pages (citations, related-articles and the like).
func isScholarSearchURL(link string) bool {
	return strings.Contains(link, "scholar.google.") &&
		(strings.Contains(link, "/scholar?") || strings.Contains(link, "/citations?"))
}

// authorsFromMeta keeps the author list from a gs_a line, which looks like
// "A Author, B Author - Journal of Things, 1999 - publisher.com".
func authorsFromMeta(text string) string {
	if idx := strings.Index(text, " - "); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

func capSnippet(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= maxSnippetLen {
		return s
	}
	return strings.TrimSpace(string(runes[:maxSnippetLen])) + "…"
}

// HTML walking helpers.

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func elements(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
	})
	return out
}

func nodesWithClass(root *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
			out = append(out, n)
		}
	})
	return out
}

func firstElement(root *html.Node, tag string) *html.Node {
	nodes := elements(root, tag)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func firstWithClass(root *html.Node, tag, class string) *html.Node {
	nodes := nodesWithClass(root, tag, class)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}
