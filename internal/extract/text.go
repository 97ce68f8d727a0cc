package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// pageParts is the raw material pulled out of a parsed document in one walk
type pageParts struct {
	title string
	meta  map[string]string // keyed by lower-cased property or name
	body  string            // visible body text
}

// collectParts walks the document once, gathering the title, meta tags and visible body text
func collectParts(doc *html.Node) pageParts {
	parts := pageParts{meta: make(map[string]string)}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if parts.title == "" {
					parts.title = textContent(n)
				}
				return
			case "meta":
				collectMeta(n, parts.meta)
				return
			case "body":
				parts.body = extractVisibleText(n)
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return parts
}

// collectMeta records a <meta> tag's content under its property or name.
// The first occurrence of a key wins.
func collectMeta(n *html.Node, meta map[string]string) {
	var key, content string
	hasContent := false
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "property", "name":
			if key == "" {
				key = strings.ToLower(strings.TrimSpace(attr.Val))
			}
		case "content":
			content = strings.TrimSpace(attr.Val)
			hasContent = true
		}
	}
	if key == "" || !hasContent {
		return
	}
	if _, exists := meta[key]; !exists {
		meta[key] = content
	}
}

// textContent concatenates every text node under n
func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// blockElements break the flow of text; inline elements do not
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles.
// Adjacent inline text is joined as written, so "<span>$</span>29" reads "$29";
// block boundaries become a single space.
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		block := false
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			}
			block = blockElements[n.Data]
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}

		if block {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			buf.WriteByte('\n')
		}
	}

	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
