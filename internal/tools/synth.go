package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
	"github.com/RETR0-OS/Doc2Mcp/internal/schema"
	"github.com/RETR0-OS/Doc2Mcp/internal/trace"
)

// Handler executes one tool call with the given argument map.
type Handler func(ctx context.Context, args map[string]any) (*Result, error)

// Metadata records the lineage of a generated tool. The source Document is
// not retained; only its provenance fields are copied.
type Metadata struct {
	SourceURL   string              `json:"source_url"`
	SourceType  docmodel.SourceType `json:"source_type"`
	Path        string              `json:"path"`
	Method      string              `json:"method"`
	GeneratedAt time.Time           `json:"generated_at"`
	Generation  string              `json:"generation"`
}

// Descriptor is the advertised projection of one endpoint: a name, a
// description, a wire-level input schema, and a bound handler.
type Descriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
	Schema      *schema.Type
	Endpoint    docmodel.Endpoint
	Meta        Metadata
	Handler     Handler
}

// Synthesizer turns parsed documents into tool descriptors.
type Synthesizer struct {
	compiler *schema.Compiler
	invoker  *Invoker
	logger   *common.Logger
	tracer   trace.Tracer
}

// NewSynthesizer creates a Synthesizer. A nil tracer disables span emission.
func NewSynthesizer(logger *common.Logger, invoker *Invoker, tracer trace.Tracer) *Synthesizer {
	if tracer == nil {
		tracer = trace.Noop()
	}
	return &Synthesizer{
		compiler: schema.NewCompiler(logger),
		invoker:  invoker,
		logger:   logger,
		tracer:   tracer,
	}
}

// Synthesize produces one descriptor per endpoint in the document. All
// descriptors from one call share a generation id.
func (s *Synthesizer) Synthesize(doc *docmodel.Document) []*Descriptor {
	generation := uuid.NewString()
	now := time.Now().UTC()

	descriptors := make([]*Descriptor, 0, len(doc.Endpoints))
	for i := range doc.Endpoints {
		ep := doc.Endpoints[i]
		name := ToolName(ep.OperationID, ep.Method, ep.Path)
		compiled := s.compiler.Compile(ep.Parameters)

		d := &Descriptor{
			Name:        name,
			Description: describeEndpoint(&ep),
			InputSchema: schema.Wire(compiled),
			Schema:      compiled,
			Endpoint:    ep,
			Meta: Metadata{
				SourceURL:   doc.SourceURL,
				SourceType:  doc.SourceType,
				Path:        ep.Path,
				Method:      ep.Method,
				GeneratedAt: now,
				Generation:  generation,
			},
		}
		d.Handler = s.bindHandler(d, doc.BaseURL)
		descriptors = append(descriptors, d)

		s.logger.Debug().Str("tool", name).Str("method", ep.Method).Str("path", ep.Path).Msg("tool synthesized")
	}

	return descriptors
}

// bindHandler closes over the endpoint, its compiled schema, and the
// document's base URL. Arguments are validated before any request is placed;
// the invocation runs inside a tracing span.
func (s *Synthesizer) bindHandler(d *Descriptor, baseURL string) Handler {
	ep := d.Endpoint
	compiled := d.Schema
	meta := d.Meta

	return func(ctx context.Context, args map[string]any) (*Result, error) {
		if err := schema.Validate(compiled, args); err != nil {
			return nil, err
		}

		// d.Name is read at call time: registration may have suffixed it
		// after the handler was bound.
		name := d.Name

		serialized, _ := json.Marshal(args)
		attrs := trace.Attrs{
			"tool":        name,
			"source_url":  meta.SourceURL,
			"source_type": string(meta.SourceType),
			"path":        ep.Path,
			"method":      ep.Method,
			"arguments":   string(serialized),
		}

		var result *Result
		err := s.tracer(ctx, "doc2mcp.tool."+name, attrs, func(ctx context.Context) error {
			var invokeErr error
			result, invokeErr = s.invoker.Invoke(ctx, &ep, baseURL, args)
			if result != nil {
				attrs["status"] = result.Status
				attrs["success"] = result.Status >= 200 && result.Status < 300
			} else {
				attrs["success"] = false
			}
			return invokeErr
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

// describeEndpoint picks the advertised description: description, then
// summary, then a synthesized verb+path line.
func describeEndpoint(ep *docmodel.Endpoint) string {
	if ep.Description != "" {
		return ep.Description
	}
	if ep.Summary != "" {
		return ep.Summary
	}
	return ep.Method + " " + ep.Path
}
