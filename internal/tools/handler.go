// Package tools synthesizes callable tool descriptors and invocation
// handlers from documented endpoints.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
)

// maxResponseSize limits invocation responses to 50MB.
const maxResponseSize = 50 * 1024 * 1024

// InvocationError is raised for transport-level failures when invoking a
// documented endpoint: timeout, DNS, connection reset. HTTP error statuses
// are not invocation errors; they are returned to the caller as data.
type InvocationError struct {
	URL    string
	Status int
	Err    error
}

func (e *InvocationError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("invocation of %s failed with status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("invocation of %s failed: %v", e.URL, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Result is what a tool invocation returns to the calling agent. Non-2xx
// responses still produce a Result so the agent can reason about HTTP
// failures directly.
type Result struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Data       any               `json:"data"`
}

// Invoker places the HTTP requests synthesized handlers describe.
// Invocations are independently concurrent; the Invoker holds no per-call
// state.
type Invoker struct {
	client    *http.Client
	logger    *common.Logger
	userAgent string
}

// NewInvoker creates an Invoker with the given request timeout. A
// non-positive timeout falls back to 60 seconds.
func NewInvoker(logger *common.Logger, timeout time.Duration) *Invoker {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Invoker{
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
		userAgent: "doc2mcp/" + common.GetVersion(),
	}
}

// Invoke places one request for the endpoint with the given argument map:
// path parameters are substituted URL-escaped into both {name} and :name
// placeholder forms, query and header arguments are collected, a structured
// body argument is sent as JSON. The base URL is prepended when the path is
// not already absolute.
func (inv *Invoker) Invoke(ctx context.Context, ep *docmodel.Endpoint, baseURL string, args map[string]any) (*Result, error) {
	path := ep.Path
	query := url.Values{}
	headers := map[string]string{}
	var body any

	for i := range ep.Parameters {
		param := &ep.Parameters[i]
		val, present := args[param.Name]
		if !present || val == nil {
			if param.Required && param.In == docmodel.LocationPath {
				return nil, &InvocationError{URL: path, Err: fmt.Errorf("path parameter %s is required", param.Name)}
			}
			continue
		}
		switch param.In {
		case docmodel.LocationPath:
			strVal := fmt.Sprint(val)
			path = strings.ReplaceAll(path, "{"+param.Name+"}", url.PathEscape(strVal))
			path = replaceColonParam(path, param.Name, url.PathEscape(strVal))
		case docmodel.LocationQuery:
			query.Set(param.Name, fmt.Sprint(val))
		case docmodel.LocationHeader:
			headers[param.Name] = fmt.Sprint(val)
		case docmodel.LocationBody:
			body = val
		}
	}

	requestURL := path
	if !strings.HasPrefix(requestURL, "http://") && !strings.HasPrefix(requestURL, "https://") {
		requestURL = strings.TrimSuffix(baseURL, "/") + requestURL
	}
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	structuredBody := false
	if body != nil {
		switch b := body.(type) {
		case string:
			reqBody = strings.NewReader(b)
		default:
			encoded, err := json.Marshal(b)
			if err != nil {
				return nil, &InvocationError{URL: requestURL, Err: fmt.Errorf("encoding body: %w", err)}
			}
			reqBody = bytes.NewReader(encoded)
			structuredBody = true
		}
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, requestURL, reqBody)
	if err != nil {
		return nil, &InvocationError{URL: requestURL, Err: err}
	}
	req.Header.Set("User-Agent", inv.userAgent)
	if structuredBody {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, val := range headers {
		req.Header.Set(name, val)
	}

	start := time.Now()
	resp, err := inv.client.Do(req)
	if err != nil {
		inv.logger.Error().Str("method", ep.Method).Str("url", requestURL).Str("error", err.Error()).Msg("tool invocation failed")
		return nil, &InvocationError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &InvocationError{URL: requestURL, Status: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", err)}
	}

	inv.logger.Debug().Str("method", ep.Method).Str("url", requestURL).Int("status", resp.StatusCode).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("tool invocation complete")

	result := &Result{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    flattenHeaders(resp.Header),
		Data:       decodeBody(respBody),
	}
	return result, nil
}

// replaceColonParam substitutes the :name placeholder form. The token only
// matches up to a segment boundary, so a parameter whose name prefixes
// another (:id against :idx) cannot rewrite the longer placeholder.
func replaceColonParam(path, name, value string) string {
	token := ":" + name
	var b strings.Builder
	rest := path
	for {
		i := strings.Index(rest, token)
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end := i + len(token)
		if end < len(rest) && isIdentByte(rest[end]) {
			b.WriteString(rest[:end])
		} else {
			b.WriteString(rest[:i])
			b.WriteString(value)
		}
		rest = rest[end:]
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// decodeBody returns parsed JSON when the body is JSON, the raw string
// otherwise.
func decodeBody(body []byte) any {
	if len(body) == 0 {
		return ""
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		return parsed
	}
	return string(body)
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name := range h {
		out[name] = h.Get(name)
	}
	return out
}
