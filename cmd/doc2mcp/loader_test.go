package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
	"github.com/RETR0-OS/Doc2Mcp/internal/fetcher"
	"github.com/RETR0-OS/Doc2Mcp/internal/parser"
	"github.com/RETR0-OS/Doc2Mcp/internal/registry"
	"github.com/RETR0-OS/Doc2Mcp/internal/tools"
	"github.com/RETR0-OS/Doc2Mcp/internal/trace"
)

const loaderSpec = `{
  "openapi": "3.0.0",
  "info": {"title": "Loader API", "version": "1.0.0"},
  "paths": {
    "/items": {
      "get": {"summary": "List items", "responses": {"200": {"description": "OK"}}},
      "post": {"summary": "Create item", "responses": {"201": {"description": "created"}}}
    }
  }
}`

func newTestLoader(reg *registry.Registry) *loader {
	logger := common.NewSilentLogger()
	f := fetcher.New(logger, fetcher.Options{Timeout: 5 * time.Second})
	p := parser.New(logger, f, trace.Noop())
	synth := tools.NewSynthesizer(logger, tools.NewInvoker(logger, 5*time.Second), trace.Noop())
	return newLoader(logger, p, synth, reg)
}

func TestLoadAllRegistersTools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(loaderSpec))
	}))
	defer srv.Close()

	reg := registry.New()
	loaded := newTestLoader(reg).LoadAll(context.Background(), []string{srv.URL + "/openapi.json"})

	if loaded != 1 {
		t.Errorf("loaded = %d, want 1", loaded)
	}
	if reg.Len() != 2 {
		t.Errorf("registered %d tools, want 2", reg.Len())
	}
}

func TestLoadAllSkipsFailedSources(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(loaderSpec))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	bad.Close()

	reg := registry.New()
	loaded := newTestLoader(reg).LoadAll(context.Background(), []string{
		bad.URL + "/openapi.json",
		good.URL + "/openapi.json",
	})

	// One source down must not take the load with it.
	if loaded != 1 {
		t.Errorf("loaded = %d, want 1", loaded)
	}
	if reg.Len() != 2 {
		t.Errorf("registered %d tools, want 2 from the healthy source", reg.Len())
	}
}

func TestLoadAllEmptyDocumentNotCounted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# No endpoints here\n\nJust words.\n"))
	}))
	defer srv.Close()

	reg := registry.New()
	loaded := newTestLoader(reg).LoadAll(context.Background(), []string{srv.URL + "/guide"})

	if loaded != 0 || reg.Len() != 0 {
		t.Errorf("loaded=%d tools=%d, want 0/0", loaded, reg.Len())
	}
}
