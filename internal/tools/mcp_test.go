package tools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
)

func TestBuildMCPTool(t *testing.T) {
	doc := testDocument("https://api.example.com")
	descriptors := newTestSynthesizer().Synthesize(doc)

	tool := BuildMCPTool(descriptors[0])
	if tool.Name != "getUsers" {
		t.Errorf("Name = %q", tool.Name)
	}
	if tool.Description != "List users" {
		t.Errorf("Description = %q", tool.Description)
	}

	var schema map[string]any
	if err := json.Unmarshal(tool.RawInputSchema, &schema); err != nil {
		t.Fatalf("raw schema is not valid JSON: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("schema type = %v", schema["type"])
	}
}

func TestMCPHandlerSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	descriptors := newTestSynthesizer().Synthesize(testDocument(srv.URL))
	handler := MCPHandler(descriptors[0], common.NewSilentLogger())

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{}

	result, err := handler(t.Context(), request)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError set on success: %+v", result)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Content[0] = %T", result.Content[0])
	}
	var payload Result
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.Status != 200 {
		t.Errorf("Status = %d", payload.Status)
	}
}

func TestMCPHandlerStructuredErrorPayload(t *testing.T) {
	// Missing required path parameter: handler fails, but the failure is
	// returned as a structured payload, never as a Go error.
	descriptors := newTestSynthesizer().Synthesize(testDocument("http://example.invalid"))
	handler := MCPHandler(descriptors[1], common.NewSilentLogger())

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{}

	result, err := handler(t.Context(), request)
	if err != nil {
		t.Fatalf("handler must not return a Go error: %v", err)
	}
	if !result.IsError {
		t.Fatal("IsError not set")
	}

	text := result.Content[0].(mcp.TextContent)
	var payload struct {
		Error string `json:"error"`
		Tool  string `json:"tool"`
	}
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("error payload is not valid JSON: %v", err)
	}
	if payload.Tool != "deleteUsers" || payload.Error == "" {
		t.Errorf("payload = %+v", payload)
	}
}
