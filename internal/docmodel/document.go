// Package docmodel defines the unified document model that all format
// extractors produce: one Document per parsed source, holding the endpoints
// mined from it. Documents are value types — constructed once per parse and
// never mutated afterwards, so concurrent parsing of independent sources
// needs no synchronization.
package docmodel

// SourceType identifies which extractor produced a Document.
type SourceType string

const (
	SourceTypeSpecification SourceType = "specification"
	SourceTypeHTML          SourceType = "html"
	SourceTypeMarkdown      SourceType = "markdown"
)

// Location is where a parameter is placed on the outgoing request.
type Location string

const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationBody   Location = "body"
)

// Methods is the fixed set of HTTP verbs the extractors recognize, in the
// order endpoints are emitted for a single path.
var Methods = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

// Document is the unified model all parsers emit into.
type Document struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Version     string     `json:"version,omitempty"`
	BaseURL     string     `json:"base_url,omitempty"`
	Endpoints   []Endpoint `json:"endpoints"`
	SourceURL   string     `json:"source_url"`
	SourceType  SourceType `json:"source_type"`
}

// Endpoint is one documented operation. Path and Method together are not
// required to be unique within a Document: heuristic extraction deduplicates,
// the specification extractor keeps every declared operation.
type Endpoint struct {
	Path        string      `json:"path"`
	Method      string      `json:"method"`
	Description string      `json:"description,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	OperationID string      `json:"operation_id,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Responses   []Response  `json:"responses,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
}

// Parameter is one input to an endpoint. Body parameters carry a Schema
// describing the full payload shape rather than a primitive Type.
type Parameter struct {
	Name        string      `json:"name"`
	In          Location    `json:"in"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required"`
	Type        string      `json:"type"` // string, number, boolean, array, object
	Schema      *SchemaNode `json:"schema,omitempty"`
	Example     any         `json:"example,omitempty"`
}

// Response documents one declared response. Responses are advertised only,
// never used for validation.
type Response struct {
	StatusCode  int         `json:"status_code"`
	Description string      `json:"description,omitempty"`
	Schema      *SchemaNode `json:"schema,omitempty"`
	Example     any         `json:"example,omitempty"`
}

// SchemaNode is a nested type description carried verbatim from the input
// document. The schema compiler turns it into the internal validation
// representation; nothing else interprets it.
type SchemaNode struct {
	Type        string                 `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string                 `json:"format,omitempty" yaml:"format,omitempty"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []any                  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Pattern     string                 `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinLength   *int                   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int                   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum     *float64               `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	MinItems    *int                   `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems    *int                   `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	Items       *SchemaNode            `json:"items,omitempty" yaml:"items,omitempty"`
	Properties  map[string]*SchemaNode `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string               `json:"required,omitempty" yaml:"required,omitempty"`
	Default     any                    `json:"default,omitempty" yaml:"default,omitempty"`
	Example     any                    `json:"example,omitempty" yaml:"example,omitempty"`
}
