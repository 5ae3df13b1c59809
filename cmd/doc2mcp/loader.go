package main

import (
	"context"
	"sync"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
	"github.com/RETR0-OS/Doc2Mcp/internal/parser"
	"github.com/RETR0-OS/Doc2Mcp/internal/registry"
	"github.com/RETR0-OS/Doc2Mcp/internal/tools"
)

// loader fans out over documentation sources at startup. Sources are
// independent: a failure to fetch or parse one is logged and skipped, never
// fatal for the whole load.
type loader struct {
	logger *common.Logger
	parser *parser.Parser
	synth  *tools.Synthesizer
	reg    *registry.Registry
}

func newLoader(logger *common.Logger, p *parser.Parser, synth *tools.Synthesizer, reg *registry.Registry) *loader {
	return &loader{logger: logger, parser: p, synth: synth, reg: reg}
}

// LoadAll parses every source concurrently and registers the synthesized
// tools. Returns the number of sources that produced at least one tool.
func (l *loader) LoadAll(ctx context.Context, sources []string) int {
	var wg sync.WaitGroup
	var mu sync.Mutex
	loaded := 0

	for _, source := range sources {
		wg.Add(1)
		go func(source string) {
			defer wg.Done()
			if l.loadOne(ctx, source) {
				mu.Lock()
				loaded++
				mu.Unlock()
			}
		}(source)
	}
	wg.Wait()

	return loaded
}

func (l *loader) loadOne(ctx context.Context, source string) bool {
	doc, err := l.parser.ParseFromURL(ctx, source)
	if err != nil {
		l.logger.Error().Str("source", source).Str("error", err.Error()).Msg("skipping documentation source")
		return false
	}
	if len(doc.Endpoints) == 0 {
		l.logger.Warn().Str("source", source).Msg("documentation source yielded no endpoints")
		return false
	}

	for _, d := range l.synth.Synthesize(doc) {
		name := l.reg.Add(d)
		l.logger.Info().Str("tool", name).Str("source", source).Msg("tool registered")
	}
	return true
}
