package parser

import (
	"strings"

	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
)

// sourceKeywords mark a source identifier as a machine-readable specification.
var sourceKeywords = []string{"swagger", "openapi", ".json", ".yaml", ".yml"}

// DetectFormat classifies raw content as a specification, HTML, or Markdown.
// The source identifier is consulted first; content sniffing is a cheap
// syntactic guess and a wrong guess surfaces as a parse failure in the chosen
// extractor rather than silently producing wrong data.
func DetectFormat(source, content string) docmodel.SourceType {
	lowerSource := strings.ToLower(source)
	for _, kw := range sourceKeywords {
		if strings.Contains(lowerSource, kw) {
			return docmodel.SourceTypeSpecification
		}
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		return docmodel.SourceTypeSpecification
	}
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "openapi:") {
			return docmodel.SourceTypeSpecification
		}
	}

	lowerContent := strings.ToLower(trimmed)
	if strings.Contains(lowerContent, "<html") || strings.Contains(lowerContent, "<!doctype html") {
		return docmodel.SourceTypeHTML
	}

	return docmodel.SourceTypeMarkdown
}
