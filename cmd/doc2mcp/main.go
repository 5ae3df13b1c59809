package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
	"github.com/RETR0-OS/Doc2Mcp/internal/config"
	"github.com/RETR0-OS/Doc2Mcp/internal/fetcher"
	"github.com/RETR0-OS/Doc2Mcp/internal/parser"
	"github.com/RETR0-OS/Doc2Mcp/internal/registry"
	"github.com/RETR0-OS/Doc2Mcp/internal/tools"
	"github.com/RETR0-OS/Doc2Mcp/internal/trace"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	configFile := flag.String("config", "doc2mcp.toml", "Path to config file")
	port := flag.Int("port", 0, "Override configured HTTP port")
	showVersion := flag.Bool("version", false, "Print version information")
	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion {
		fmt.Printf("doc2mcp %s\n", common.GetFullVersion())
		return
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.ApplyFlagOverrides(cfg, *port)

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().Str("version", common.GetFullVersion()).Msg("doc2mcp starting")

	if len(cfg.Sources.URLs) == 0 {
		log.Fatal("No documentation sources configured: set DOC_URLS or sources.urls in the config file")
	}

	tracer := trace.Logging(logger)
	f := fetcher.New(logger, fetcher.Options{
		Timeout:      time.Duration(cfg.Sources.FetchTimeoutSec) * time.Second,
		CacheTTL:     time.Duration(cfg.Sources.CacheTTLSec) * time.Second,
		CacheEntries: cfg.Sources.CacheEntries,
		RenderJS:     cfg.Sources.RenderJS,
	})
	p := parser.New(logger, f, tracer)
	invoker := tools.NewInvoker(logger, time.Duration(cfg.Invoke.TimeoutSec)*time.Second)
	synth := tools.NewSynthesizer(logger, invoker, tracer)
	reg := registry.New()

	loader := newLoader(logger, p, synth, reg)
	if loaded := loader.LoadAll(context.Background(), cfg.Sources.URLs); loaded == 0 {
		log.Fatal("No documentation source produced any tools")
	}

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	for _, d := range reg.Tools() {
		mcpServer.AddTool(tools.BuildMCPTool(d), tools.MCPHandler(d, logger))
	}
	logger.Info().Int("tools", reg.Len()).Msg("tools registered")

	if *stdio {
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%d\n", cfg.Server.Port)
	if err := httpServer.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig tolerates a missing config file: defaults plus env overrides
// are enough to run.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}
	return config.LoadFromFile(path)
}
