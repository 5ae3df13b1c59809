package parser

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
)

var (
	verbRe = regexp.MustCompile(`\b(GET|POST|PUT|DELETE|PATCH)\b`)
	pathRe = regexp.MustCompile(`(?:https?://[^\s"'<>]+|/[A-Za-z0-9_\-{}:.~/]*)`)

	// placeholderRe matches {name} and :name path segments.
	placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}|:([A-Za-z0-9_]+)`)
)

// htmlStrategy mines endpoints from a parsed HTML tree. Strategies are
// independent; the extractor tries each in order and stops at the first
// non-empty result.
type htmlStrategy func(root *html.Node) []docmodel.Endpoint

var htmlStrategies = []htmlStrategy{
	extractFromCodeBlocks,
	extractFromHeadings,
}

// ParseHTML heuristically mines endpoints from rendered HTML. Hand-written
// doc pages have no schema, so this is best-effort: code blocks first, then
// headings, deduplicated on method:path.
func ParseHTML(content []byte, sourceURL string) (*docmodel.Document, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, &FormatError{Source: sourceURL, Reason: "invalid HTML: " + err.Error()}
	}

	doc := &docmodel.Document{
		Title:      "API Documentation",
		SourceURL:  sourceURL,
		SourceType: docmodel.SourceTypeHTML,
	}
	if title := findFirstText(root, "title", "h1"); title != "" {
		doc.Title = title
	}

	for _, strategy := range htmlStrategies {
		if eps := strategy(root); len(eps) > 0 {
			doc.Endpoints = dedupeEndpoints(eps)
			break
		}
	}

	return doc, nil
}

// extractFromCodeBlocks scans code-like elements for verb and path tokens.
// Matches are position-paired: the Nth verb in a block pairs with the Nth
// path. Description comes from a neighboring paragraph, the element's title
// attribute, or is synthesized from the verb and path.
func extractFromCodeBlocks(root *html.Node) []docmodel.Endpoint {
	var endpoints []docmodel.Endpoint

	for _, node := range findElements(root, "code", "pre", "samp") {
		text := nodeText(node)
		verbs := verbRe.FindAllString(text, -1)
		paths := pathRe.FindAllString(text, -1)
		if len(verbs) == 0 || len(paths) == 0 {
			continue
		}

		n := len(verbs)
		if len(paths) < n {
			n = len(paths)
		}
		for i := 0; i < n; i++ {
			method := verbs[i]
			path := strings.TrimRight(paths[i], ".,;")
			desc := neighborParagraph(node)
			if desc == "" {
				desc = attrValue(node, "title")
			}
			if desc == "" {
				desc = method + " " + path
			}
			ep := docmodel.Endpoint{
				Path:        path,
				Method:      method,
				Description: desc,
				Parameters:  pathParameters(path),
			}
			ep.Parameters = append(ep.Parameters, tableParameters(node)...)
			endpoints = append(endpoints, ep)
		}
	}

	return endpoints
}

// extractFromHeadings scans h2-h4 elements for a verb+path co-occurrence,
// taking the following paragraph as description.
func extractFromHeadings(root *html.Node) []docmodel.Endpoint {
	var endpoints []docmodel.Endpoint

	for _, node := range findElements(root, "h2", "h3", "h4") {
		text := nodeText(node)
		verb := verbRe.FindString(text)
		path := pathRe.FindString(text)
		if verb == "" || path == "" {
			continue
		}

		desc := followingParagraph(node)
		if desc == "" {
			desc = verb + " " + path
		}
		path = strings.TrimRight(path, ".,;")
		ep := docmodel.Endpoint{
			Path:        path,
			Method:      verb,
			Description: desc,
			Parameters:  pathParameters(path),
		}
		ep.Parameters = append(ep.Parameters, tableParameters(node)...)
		endpoints = append(endpoints, ep)
	}

	return endpoints
}

// pathParameters emits one required string path parameter per {name} or
// :name segment.
func pathParameters(path string) []docmodel.Parameter {
	var params []docmodel.Parameter
	for _, m := range placeholderRe.FindAllStringSubmatch(path, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		params = append(params, docmodel.Parameter{
			Name:        name,
			In:          docmodel.LocationPath,
			Description: "Path parameter " + name,
			Required:    true,
			Type:        "string",
		})
	}
	return params
}

// tableParameters mines two-column table rows near node into query
// parameters. A description containing "required" marks the parameter
// required; that is a heuristic, not a guarantee.
func tableParameters(node *html.Node) []docmodel.Parameter {
	table := nearbyTable(node)
	if table == nil {
		return nil
	}

	var params []docmodel.Parameter
	for _, row := range findElements(table, "tr") {
		cells := findElements(row, "td")
		if len(cells) < 2 {
			continue
		}
		name := strings.TrimSpace(nodeText(cells[0]))
		desc := strings.TrimSpace(nodeText(cells[1]))
		if name == "" {
			continue
		}
		params = append(params, docmodel.Parameter{
			Name:        name,
			In:          docmodel.LocationQuery,
			Description: desc,
			Required:    strings.Contains(strings.ToLower(desc), "required"),
			Type:        "string",
		})
	}
	return params
}

// nearbyTable looks for a table among the following siblings of node or of
// its enclosing block element.
func nearbyTable(node *html.Node) *html.Node {
	for _, start := range []*html.Node{node, node.Parent} {
		if start == nil {
			continue
		}
		count := 0
		for sib := start.NextSibling; sib != nil && count < 6; sib = sib.NextSibling {
			if sib.Type != html.ElementNode {
				continue
			}
			count++
			if sib.Data == "table" {
				return sib
			}
			if t := findElements(sib, "table"); len(t) > 0 {
				return t[0]
			}
		}
	}
	return nil
}

// neighborParagraph returns the text of the paragraph immediately before or
// after node (or its parent, for code nested in pre).
func neighborParagraph(node *html.Node) string {
	for _, start := range []*html.Node{node, node.Parent} {
		if start == nil {
			continue
		}
		for sib := start.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode {
				if sib.Data == "p" {
					return strings.TrimSpace(nodeText(sib))
				}
				break
			}
		}
		for sib := start.NextSibling; sib != nil; sib = sib.NextSibling {
			if sib.Type == html.ElementNode {
				if sib.Data == "p" {
					return strings.TrimSpace(nodeText(sib))
				}
				break
			}
		}
	}
	return ""
}

// followingParagraph returns the text of the first paragraph after node.
func followingParagraph(node *html.Node) string {
	for sib := node.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		if sib.Data == "p" {
			return strings.TrimSpace(nodeText(sib))
		}
		break
	}
	return ""
}

// dedupeEndpoints drops repeated method:path pairs, keeping the first.
func dedupeEndpoints(eps []docmodel.Endpoint) []docmodel.Endpoint {
	seen := make(map[string]bool, len(eps))
	out := eps[:0]
	for _, ep := range eps {
		key := ep.Method + ":" + ep.Path
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ep)
	}
	return out
}

// findElements collects every descendant element whose tag matches one of
// names, in document order.
func findElements(root *html.Node, names ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, name := range names {
				if n.Data == name {
					out = append(out, n)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// findFirstText returns the trimmed text of the first matching element that
// has any.
func findFirstText(root *html.Node, names ...string) string {
	for _, name := range names {
		for _, n := range findElements(root, name) {
			if text := strings.TrimSpace(nodeText(n)); text != "" {
				return text
			}
		}
	}
	return ""
}

// nodeText concatenates all text descendants of n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// attrValue returns the value of the named attribute on n, if present.
func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
