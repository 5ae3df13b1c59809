// Package parser turns raw documentation content into the unified document
// model: it detects the input format and dispatches to the matching
// extractor.
package parser

import (
	"context"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
	"github.com/RETR0-OS/Doc2Mcp/internal/fetcher"
	"github.com/RETR0-OS/Doc2Mcp/internal/trace"
)

// Parser is the dispatcher: fetch or receive raw content, detect its format,
// run the matching extractor, return one Document.
type Parser struct {
	logger  *common.Logger
	fetcher *fetcher.Fetcher
	tracer  trace.Tracer
}

// New creates a Parser. The fetcher may be nil when only Parse (not
// ParseFromURL) will be used. A nil tracer disables span emission.
func New(logger *common.Logger, f *fetcher.Fetcher, tracer trace.Tracer) *Parser {
	if tracer == nil {
		tracer = trace.Noop()
	}
	return &Parser{logger: logger, fetcher: f, tracer: tracer}
}

// Parse detects the format of content and extracts a Document from it. The
// source identifier feeds detection and is recorded as provenance.
func (p *Parser) Parse(ctx context.Context, content []byte, source string) (*docmodel.Document, error) {
	var doc *docmodel.Document

	format := DetectFormat(source, string(content))
	attrs := trace.Attrs{"source_url": source, "source_type": string(format)}

	err := p.tracer(ctx, "doc2mcp.parse", attrs, func(ctx context.Context) error {
		var parseErr error
		switch format {
		case docmodel.SourceTypeSpecification:
			doc, parseErr = ParseSpecification(content, source)
		case docmodel.SourceTypeHTML:
			doc, parseErr = ParseHTML(content, source)
		default:
			doc, parseErr = ParseMarkdown(content, source)
		}
		if doc != nil {
			attrs["endpoints"] = len(doc.Endpoints)
		}
		return parseErr
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info().Str("source", source).Str("format", string(format)).Int("endpoints", len(doc.Endpoints)).Msg("document parsed")
	return doc, nil
}

// ParseFromURL fetches a documentation source and parses it. Fetch failures
// are fatal for this one source only.
func (p *Parser) ParseFromURL(ctx context.Context, url string) (*docmodel.Document, error) {
	content, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, content.Body, url)
}
