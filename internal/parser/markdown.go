package parser

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
)

// lookaheadWindow bounds how far past an endpoint heading the extractor
// scans for parameter lists and tables.
const lookaheadWindow = 10

var (
	// listParamRe matches `name` (type): description list items. Backticks
	// are optional: code spans lose them when the token stream is flattened
	// to text.
	listParamRe = regexp.MustCompile("^`?([A-Za-z0-9_.-]+)`?\\s*(?:\\(([A-Za-z]+)\\))?\\s*:\\s*(.*)$")
	// dashParamRe matches name - description list items.
	dashParamRe = regexp.MustCompile(`^([A-Za-z0-9_.-]+)\s+-\s+(.*)$`)
)

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ParseMarkdown heuristically mines endpoints from Markdown structure. It
// operates on the lexical token stream (headings, paragraphs, lists, tables,
// code blocks), not on raw text: documentation prose is unstructured by
// nature, so only the verb+path co-occurrence signal is trusted.
func ParseMarkdown(content []byte, sourceURL string) (*docmodel.Document, error) {
	root := markdownParser.Parser().Parse(text.NewReader(content))

	doc := &docmodel.Document{
		Title:      "API Documentation",
		SourceURL:  sourceURL,
		SourceType: docmodel.SourceTypeMarkdown,
	}

	var endpoints []docmodel.Endpoint

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			if n.Level == 1 && doc.Title == "API Documentation" {
				if t := strings.TrimSpace(mdText(n, content)); t != "" {
					doc.Title = t
				}
				continue
			}
			if ep, ok := headingEndpoint(n, content); ok {
				ep.Parameters = append(ep.Parameters, lookaheadParameters(n, content)...)
				endpoints = append(endpoints, ep)
			}
		case *ast.Paragraph:
			if doc.Description == "" {
				doc.Description = strings.TrimSpace(mdText(n, content))
			}
		case *ast.FencedCodeBlock:
			endpoints = append(endpoints, codeBlockEndpoints(n, content)...)
		}
	}

	doc.Endpoints = dedupeEndpoints(endpoints)
	return doc, nil
}

// headingEndpoint tests a heading for a verb token plus a path-like token.
// Backtick-quoted slash-containing spans are preferred as the path; a bare
// slash-containing token is the fallback. The description is the following
// paragraph, or the heading text itself.
func headingEndpoint(h *ast.Heading, src []byte) (docmodel.Endpoint, bool) {
	headingText := strings.TrimSpace(mdText(h, src))
	verb := verbRe.FindString(headingText)
	if verb == "" {
		return docmodel.Endpoint{}, false
	}

	path := ""
	for child := h.FirstChild(); child != nil; child = child.NextSibling() {
		if span, ok := child.(*ast.CodeSpan); ok {
			if t := strings.TrimSpace(mdText(span, src)); strings.Contains(t, "/") {
				path = pathRe.FindString(t)
				break
			}
		}
	}
	if path == "" {
		path = pathRe.FindString(headingText)
	}
	if path == "" {
		return docmodel.Endpoint{}, false
	}
	path = strings.TrimRight(path, ".,;")

	desc := headingText
	if p, ok := h.NextSibling().(*ast.Paragraph); ok {
		if t := strings.TrimSpace(mdText(p, src)); t != "" {
			desc = t
		}
	}

	return docmodel.Endpoint{
		Path:        path,
		Method:      verb,
		Description: desc,
		Parameters:  pathParameters(path),
	}, true
}

// lookaheadParameters scans the nodes following a matched heading for
// parameter sources: list items in either documented form, and table rows
// with at least two cells. The scan stops at the next heading.
func lookaheadParameters(h *ast.Heading, src []byte) []docmodel.Parameter {
	var params []docmodel.Parameter

	node := h.NextSibling()
	for i := 0; node != nil && i < lookaheadWindow; i++ {
		switch n := node.(type) {
		case *ast.Heading:
			return params
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if p := listItemParameter(item, src); p != nil {
					params = append(params, *p)
				}
			}
		case *east.Table:
			params = append(params, tableRowParameters(n, src)...)
		}
		node = node.NextSibling()
	}

	return params
}

// listItemParameter parses one list item as a parameter declaration.
// A description mentioning "required" marks the parameter required.
func listItemParameter(item ast.Node, src []byte) *docmodel.Parameter {
	line := strings.TrimSpace(mdText(item, src))
	if line == "" {
		return nil
	}

	if m := listParamRe.FindStringSubmatch(line); m != nil {
		kind := strings.ToLower(m[2])
		if kind == "" {
			kind = "string"
		}
		return &docmodel.Parameter{
			Name:        m[1],
			In:          docmodel.LocationQuery,
			Description: m[3],
			Required:    strings.Contains(strings.ToLower(m[3]), "required"),
			Type:        kind,
		}
	}
	if m := dashParamRe.FindStringSubmatch(line); m != nil {
		return &docmodel.Parameter{
			Name:        m[1],
			In:          docmodel.LocationQuery,
			Description: m[2],
			Required:    strings.Contains(strings.ToLower(m[2]), "required"),
			Type:        "string",
		}
	}
	return nil
}

// tableRowParameters turns body rows with two or more cells into
// name/description parameters.
func tableRowParameters(table *east.Table, src []byte) []docmodel.Parameter {
	var params []docmodel.Parameter
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		if _, isHeader := row.(*east.TableHeader); isHeader {
			continue
		}
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(mdText(cell, src)))
		}
		if len(cells) < 2 || cells[0] == "" {
			continue
		}
		params = append(params, docmodel.Parameter{
			Name:        cells[0],
			In:          docmodel.LocationQuery,
			Description: cells[1],
			Required:    strings.Contains(strings.ToLower(cells[1]), "required"),
			Type:        "string",
		})
	}
	return params
}

// codeBlockEndpoints scans a fenced code block for verb+path pairs,
// producing parameter-less endpoints. Matches are position-paired the same
// way as HTML code blocks.
func codeBlockEndpoints(block *ast.FencedCodeBlock, src []byte) []docmodel.Endpoint {
	var b strings.Builder
	for i := 0; i < block.Lines().Len(); i++ {
		seg := block.Lines().At(i)
		b.Write(seg.Value(src))
	}
	blockText := b.String()

	verbs := verbRe.FindAllString(blockText, -1)
	paths := pathRe.FindAllString(blockText, -1)
	n := len(verbs)
	if len(paths) < n {
		n = len(paths)
	}

	var endpoints []docmodel.Endpoint
	for i := 0; i < n; i++ {
		path := strings.TrimRight(paths[i], ".,;")
		endpoints = append(endpoints, docmodel.Endpoint{
			Path:        path,
			Method:      verbs[i],
			Description: verbs[i] + " " + path,
			Parameters:  pathParameters(path),
		})
	}
	return endpoints
}

// mdText concatenates the text content of a markdown AST node.
func mdText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
