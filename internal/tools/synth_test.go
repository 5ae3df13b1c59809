package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
	"github.com/RETR0-OS/Doc2Mcp/internal/trace"
)

func newTestSynthesizer() *Synthesizer {
	logger := common.NewSilentLogger()
	return NewSynthesizer(logger, NewInvoker(logger, 5*time.Second), trace.Noop())
}

func testDocument(baseURL string) *docmodel.Document {
	return &docmodel.Document{
		Title:      "Test API",
		BaseURL:    baseURL,
		SourceURL:  "https://example.com/openapi.json",
		SourceType: docmodel.SourceTypeSpecification,
		Endpoints: []docmodel.Endpoint{
			{
				Path:        "/users",
				Method:      "GET",
				Description: "List users",
				Parameters: []docmodel.Parameter{
					{Name: "limit", In: docmodel.LocationQuery, Type: "number"},
				},
			},
			{
				Path:   "/users/{id}",
				Method: "DELETE",
				Parameters: []docmodel.Parameter{
					{Name: "id", In: docmodel.LocationPath, Required: true, Type: "string"},
				},
			},
		},
	}
}

func TestSynthesizeDescriptors(t *testing.T) {
	doc := testDocument("https://api.example.com")
	descriptors := newTestSynthesizer().Synthesize(doc)

	if len(descriptors) != 2 {
		t.Fatalf("got %d descriptors, want 2", len(descriptors))
	}

	get := descriptors[0]
	if get.Name != "getUsers" {
		t.Errorf("Name = %q", get.Name)
	}
	if get.Description != "List users" {
		t.Errorf("Description = %q", get.Description)
	}
	if get.InputSchema["type"] != "object" {
		t.Errorf("InputSchema = %v", get.InputSchema)
	}
	props := get.InputSchema["properties"].(map[string]any)
	if _, ok := props["limit"]; !ok {
		t.Error("limit missing from input schema")
	}

	del := descriptors[1]
	if del.Name != "deleteUsers" {
		t.Errorf("Name = %q", del.Name)
	}
	// No description or summary declared: synthesized from verb and path.
	if del.Description != "DELETE /users/{id}" {
		t.Errorf("Description = %q", del.Description)
	}

	if get.Meta.SourceURL != doc.SourceURL || get.Meta.SourceType != doc.SourceType {
		t.Errorf("Meta = %+v, provenance not copied", get.Meta)
	}
	if get.Meta.Generation == "" || get.Meta.Generation != del.Meta.Generation {
		t.Error("descriptors from one document must share a generation id")
	}
	if get.Meta.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestSynthesizedHandlerInvokes(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	doc := testDocument(srv.URL)
	descriptors := newTestSynthesizer().Synthesize(doc)

	result, err := descriptors[1].Handler(context.Background(), map[string]any{"id": "alice"})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if gotPath != "/users/alice" {
		t.Errorf("path = %q", gotPath)
	}
	if result.Status != http.StatusNoContent {
		t.Errorf("Status = %d", result.Status)
	}
}

func TestSynthesizedHandlerValidatesArguments(t *testing.T) {
	doc := testDocument("http://example.invalid")
	descriptors := newTestSynthesizer().Synthesize(doc)

	// Missing required path parameter fails validation before any request.
	if _, err := descriptors[1].Handler(context.Background(), map[string]any{}); err == nil {
		t.Fatal("expected validation error for missing required argument")
	}
}

func TestSynthesizedHandlerSpanFollowsRename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	var spanName string
	var spanAttrs trace.Attrs
	tracer := trace.Tracer(func(ctx context.Context, span string, attrs trace.Attrs, fn func(context.Context) error) error {
		spanName = span
		spanAttrs = attrs
		return fn(ctx)
	})

	logger := common.NewSilentLogger()
	synth := NewSynthesizer(logger, NewInvoker(logger, 5*time.Second), tracer)
	descriptors := synth.Synthesize(testDocument(srv.URL))

	// Registration suffixes colliding names after handlers are bound; the
	// span must carry the final name.
	descriptors[0].Name = descriptors[0].Name + "_2"

	if _, err := descriptors[0].Handler(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if spanName != "doc2mcp.tool.getUsers_2" {
		t.Errorf("span = %q", spanName)
	}
	if spanAttrs["tool"] != "getUsers_2" {
		t.Errorf("tool attr = %v", spanAttrs["tool"])
	}
}

func TestSynthesizedHandlerEmitsSpan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	var spanName string
	var spanAttrs trace.Attrs
	tracer := trace.Tracer(func(ctx context.Context, span string, attrs trace.Attrs, fn func(context.Context) error) error {
		spanName = span
		spanAttrs = attrs
		return fn(ctx)
	})

	logger := common.NewSilentLogger()
	synth := NewSynthesizer(logger, NewInvoker(logger, 5*time.Second), tracer)
	descriptors := synth.Synthesize(testDocument(srv.URL))

	if _, err := descriptors[0].Handler(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if spanName != "doc2mcp.tool.getUsers" {
		t.Errorf("span = %q", spanName)
	}
	if spanAttrs["tool"] != "getUsers" || spanAttrs["method"] != "GET" {
		t.Errorf("attrs = %v", spanAttrs)
	}
	if spanAttrs["success"] != true {
		t.Errorf("success attr = %v", spanAttrs["success"])
	}
}
