package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
)

func newTestFetcher(opts Options) *Fetcher {
	return New(common.NewSilentLogger(), opts)
}

func TestFetchSetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = w.Write([]byte("# Docs"))
	}))
	defer srv.Close()

	content, err := newTestFetcher(Options{}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.HasPrefix(gotUA, "doc2mcp/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if string(content.Body) != "# Docs" || content.ContentType != "text/markdown" {
		t.Errorf("content = %+v", content)
	}
}

func TestFetchServesFromCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("body"))
	}))
	defer srv.Close()

	f := newTestFetcher(Options{CacheTTL: time.Minute})
	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("upstream hit %d times, want 1", got)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestFetcher(Options{}).Fetch(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("got %v, want FetchError", err)
	}
	if fetchErr.URL != srv.URL {
		t.Errorf("URL = %q", fetchErr.URL)
	}
}

func TestFetchConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestFetcher(Options{}).Fetch(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("got %v, want FetchError", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := newTestFetcher(Options{Timeout: 20 * time.Millisecond})
	_, err := f.Fetch(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("got %v, want FetchError", err)
	}
}

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.json")
	if err := os.WriteFile(path, []byte(`{"openapi":"3.0.0"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newTestFetcher(Options{})

	content, err := f.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(content.Body) != `{"openapi":"3.0.0"}` {
		t.Errorf("Body = %q", content.Body)
	}
	if !strings.HasPrefix(content.ContentType, "application/json") {
		t.Errorf("ContentType = %q", content.ContentType)
	}

	// file:// form resolves to the same path.
	content, err = f.Fetch(context.Background(), "file://"+path)
	if err != nil {
		t.Fatalf("Fetch failed for file:// form: %v", err)
	}
	if string(content.Body) != `{"openapi":"3.0.0"}` {
		t.Errorf("Body = %q", content.Body)
	}
}

func TestFetchLocalFileMissing(t *testing.T) {
	_, err := newTestFetcher(Options{}).Fetch(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("got %v, want FetchError", err)
	}
}
