// Package fetcher retrieves documentation content over HTTP or from local
// files, with caching and an optional browser-rendered mode for
// JavaScript-heavy doc sites.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
)

// maxContentSize limits documentation downloads to 50MB.
const maxContentSize = 50 * 1024 * 1024

// FetchError indicates the documentation source could not be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Content is a fetched documentation page.
type Content struct {
	Body        []byte
	ContentType string
}

// Fetcher downloads documentation sources.
type Fetcher struct {
	client    *http.Client
	cache     *contentCache
	logger    *common.Logger
	userAgent string
	renderJS  bool
}

// Options configures a Fetcher.
type Options struct {
	Timeout      time.Duration
	CacheTTL     time.Duration
	CacheEntries int
	RenderJS     bool
}

// New creates a Fetcher. Zero-value option fields fall back to defaults.
func New(logger *common.Logger, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = 64
	}
	return &Fetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		cache:     newContentCache(opts.CacheTTL, opts.CacheEntries),
		logger:    logger,
		userAgent: "doc2mcp/" + common.GetVersion(),
		renderJS:  opts.RenderJS,
	}
}

// Fetch retrieves the content at url, serving from cache when possible.
// When the fetcher is configured for JS rendering, pages are loaded through
// a headless browser so client-rendered doc sites produce usable HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Content, error) {
	if cached, ok := f.cache.Get(url); ok {
		f.logger.Debug().Str("url", url).Msg("serving documentation from cache")
		return &Content{Body: cached.Body, ContentType: cached.ContentType}, nil
	}

	var content *Content
	var err error
	switch {
	case isLocal(url):
		content, err = f.fetchLocal(url)
	case f.renderJS:
		content, err = f.fetchRendered(ctx, url)
	default:
		content, err = f.fetchHTTP(ctx, url)
	}
	if err != nil {
		return nil, err
	}

	f.cache.Set(url, &cachedContent{Body: content.Body, ContentType: content.ContentType})
	return content, nil
}

// isLocal reports whether source names a file on disk rather than an HTTP
// URL: a file:// URL, an absolute path, or a relative path.
func isLocal(source string) bool {
	if strings.HasPrefix(source, "file://") {
		return true
	}
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}

func (f *Fetcher) fetchLocal(source string) (*Content, error) {
	path := strings.TrimPrefix(source, "file://")

	body, err := os.ReadFile(path)
	if err != nil {
		f.logger.Error().Str("path", path).Str("error", err.Error()).Msg("documentation file read failed")
		return nil, &FetchError{URL: source, Err: err}
	}
	if len(body) > maxContentSize {
		return nil, &FetchError{URL: source, Err: fmt.Errorf("file exceeds %d bytes", maxContentSize)}
	}

	f.logger.Debug().Str("path", path).Int("bytes", len(body)).Msg("documentation read from file")

	return &Content{Body: body, ContentType: mime.TypeByExtension(filepath.Ext(path))}, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) (*Content, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, text/html, text/markdown, text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error().Str("url", url).Int64("duration_ms", time.Since(start).Milliseconds()).Str("error", err.Error()).Msg("documentation fetch failed")
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Error().Str("url", url).Int("status", resp.StatusCode).Msg("documentation fetch returned error status")
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentSize))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}

	f.logger.Debug().Str("url", url).Int("bytes", len(body)).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("documentation fetched")

	return &Content{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}
