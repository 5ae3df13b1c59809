package parser

import (
	"testing"

	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
)

func TestDetectFormatBySourceKeyword(t *testing.T) {
	cases := []struct {
		source string
		want   docmodel.SourceType
	}{
		{"https://api.example.com/swagger.json", docmodel.SourceTypeSpecification},
		{"https://api.example.com/openapi.yaml", docmodel.SourceTypeSpecification},
		{"https://example.com/spec.yml", docmodel.SourceTypeSpecification},
		{"https://example.com/v3/OpenAPI", docmodel.SourceTypeSpecification},
	}

	for _, tc := range cases {
		if got := DetectFormat(tc.source, "anything"); got != tc.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}

func TestDetectFormatByContent(t *testing.T) {
	if got := DetectFormat("https://example.com/docs", `{"openapi":"3.0.0"}`); got != docmodel.SourceTypeSpecification {
		t.Errorf("JSON content: got %q, want specification", got)
	}
	if got := DetectFormat("https://example.com/docs", "openapi: 3.0.0\ninfo:\n  title: X"); got != docmodel.SourceTypeSpecification {
		t.Errorf("YAML content: got %q, want specification", got)
	}
	if got := DetectFormat("https://example.com/docs", "<!DOCTYPE html>\n<html><body></body></html>"); got != docmodel.SourceTypeHTML {
		t.Errorf("HTML content: got %q, want html", got)
	}
	if got := DetectFormat("https://example.com/docs", "# API Reference\n\nSome prose."); got != docmodel.SourceTypeMarkdown {
		t.Errorf("Markdown content: got %q, want markdown", got)
	}
}

func TestDetectFormatSourceWinsOverContent(t *testing.T) {
	// A swagger URL serving HTML-looking content is still a specification guess.
	got := DetectFormat("https://example.com/swagger.json", "<html>")
	if got != docmodel.SourceTypeSpecification {
		t.Errorf("got %q, want specification", got)
	}
}
