package parser

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
)

// specDialect is resolved once at parse start; all dialect-dependent field
// access goes through its methods rather than ad hoc presence checks.
type specDialect int

const (
	dialectOpenAPI3 specDialect = iota
	dialectSwagger2
)

func (d specDialect) String() string {
	if d == dialectSwagger2 {
		return "swagger2"
	}
	return "openapi3"
}

// specDocument covers the top-level fields of both supported dialects.
type specDocument struct {
	OpenAPI  string                  `json:"openapi" yaml:"openapi"`
	Swagger  string                  `json:"swagger" yaml:"swagger"`
	Info     specInfo                `json:"info" yaml:"info"`
	Servers  []specServer            `json:"servers" yaml:"servers"`
	Host     string                  `json:"host" yaml:"host"`
	BasePath string                  `json:"basePath" yaml:"basePath"`
	Schemes  []string                `json:"schemes" yaml:"schemes"`
	Paths    map[string]specPathItem `json:"paths" yaml:"paths"`
}

type specInfo struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version" yaml:"version"`
}

type specServer struct {
	URL string `json:"url" yaml:"url"`
}

type specPathItem struct {
	Get        *specOperation  `json:"get" yaml:"get"`
	Post       *specOperation  `json:"post" yaml:"post"`
	Put        *specOperation  `json:"put" yaml:"put"`
	Delete     *specOperation  `json:"delete" yaml:"delete"`
	Patch      *specOperation  `json:"patch" yaml:"patch"`
	Parameters []specParameter `json:"parameters" yaml:"parameters"`
}

// operation returns the operation declared for the given upper-case verb.
func (p *specPathItem) operation(method string) *specOperation {
	switch method {
	case "GET":
		return p.Get
	case "POST":
		return p.Post
	case "PUT":
		return p.Put
	case "DELETE":
		return p.Delete
	case "PATCH":
		return p.Patch
	}
	return nil
}

type specOperation struct {
	Summary     string                  `json:"summary" yaml:"summary"`
	Description string                  `json:"description" yaml:"description"`
	OperationID string                  `json:"operationId" yaml:"operationId"`
	Tags        []string                `json:"tags" yaml:"tags"`
	Parameters  []specParameter         `json:"parameters" yaml:"parameters"`
	RequestBody *specRequestBody        `json:"requestBody" yaml:"requestBody"`
	Responses   map[string]specResponse `json:"responses" yaml:"responses"`
}

type specParameter struct {
	Name        string               `json:"name" yaml:"name"`
	In          string               `json:"in" yaml:"in"`
	Description string               `json:"description" yaml:"description"`
	Required    bool                 `json:"required" yaml:"required"`
	Type        string               `json:"type" yaml:"type"`
	Schema      *docmodel.SchemaNode `json:"schema" yaml:"schema"`
	Example     any                  `json:"example" yaml:"example"`
}

type specRequestBody struct {
	Description string                   `json:"description" yaml:"description"`
	Required    bool                     `json:"required" yaml:"required"`
	Content     map[string]specMediaType `json:"content" yaml:"content"`
}

type specMediaType struct {
	Schema  *docmodel.SchemaNode `json:"schema" yaml:"schema"`
	Example any                  `json:"example" yaml:"example"`
}

type specResponse struct {
	Description string                   `json:"description" yaml:"description"`
	Schema      *docmodel.SchemaNode     `json:"schema" yaml:"schema"`
	Content     map[string]specMediaType `json:"content" yaml:"content"`
}

// ParseSpecification normalizes a machine-readable interface specification
// into the unified document model. Content is tried as JSON first, then YAML;
// a document that parses as neither fails with a FormatError. An unrecognized
// or missing dialect marker fails with an UnsupportedSpecError.
func ParseSpecification(content []byte, sourceURL string) (*docmodel.Document, error) {
	var spec specDocument
	if err := json.Unmarshal(content, &spec); err != nil {
		if yamlErr := yaml.Unmarshal(content, &spec); yamlErr != nil {
			return nil, &FormatError{Source: sourceURL, Reason: "content is neither valid JSON nor valid YAML"}
		}
	}

	dialect, err := resolveDialect(&spec, sourceURL)
	if err != nil {
		return nil, err
	}

	doc := &docmodel.Document{
		Title:       spec.Info.Title,
		Description: spec.Info.Description,
		Version:     spec.Info.Version,
		BaseURL:     dialect.baseURL(&spec, sourceURL),
		SourceURL:   sourceURL,
		SourceType:  docmodel.SourceTypeSpecification,
	}
	if doc.Title == "" {
		doc.Title = "API Documentation"
	}

	// Sorted path keys and a fixed verb order keep output deterministic
	// across parses of identical content.
	paths := make([]string, 0, len(spec.Paths))
	for p := range spec.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := spec.Paths[path]
		for _, method := range docmodel.Methods {
			op := item.operation(method)
			if op == nil {
				continue
			}
			doc.Endpoints = append(doc.Endpoints, buildEndpoint(dialect, path, method, &item, op))
		}
	}

	return doc, nil
}

// resolveDialect inspects top-level version markers. A 3.x marker supersedes
// a 2.x marker when both are present.
func resolveDialect(spec *specDocument, sourceURL string) (specDialect, error) {
	if strings.HasPrefix(spec.OpenAPI, "3") {
		return dialectOpenAPI3, nil
	}
	if strings.HasPrefix(spec.Swagger, "2") {
		return dialectSwagger2, nil
	}
	if spec.OpenAPI != "" {
		return 0, &UnsupportedSpecError{Source: sourceURL, Dialect: "openapi " + spec.OpenAPI}
	}
	if spec.Swagger != "" {
		return 0, &UnsupportedSpecError{Source: sourceURL, Dialect: "swagger " + spec.Swagger}
	}
	return 0, &UnsupportedSpecError{Source: sourceURL}
}

// baseURL resolves the absolute origin to prepend to relative paths.
// OpenAPI 3 reads the first server entry; Swagger 2 composes
// scheme://host/basePath, defaulting the scheme to https. When the document
// declares nothing usable, the origin of the source URL is the fallback.
func (d specDialect) baseURL(spec *specDocument, sourceURL string) string {
	switch d {
	case dialectOpenAPI3:
		if len(spec.Servers) > 0 && spec.Servers[0].URL != "" {
			return strings.TrimSuffix(spec.Servers[0].URL, "/")
		}
	case dialectSwagger2:
		if spec.Host != "" {
			scheme := "https"
			if len(spec.Schemes) > 0 && spec.Schemes[0] != "" {
				scheme = spec.Schemes[0]
			}
			return scheme + "://" + spec.Host + strings.TrimSuffix(spec.BasePath, "/")
		}
	}
	if u, err := url.Parse(sourceURL); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host
	}
	return ""
}

// bodyParameter synthesizes the single body parameter for an operation, or
// nil when the operation takes no body. OpenAPI 3 carries a content/schema
// map on requestBody, preferring application/json and falling back to the
// lexicographically first content type. Swagger 2 declares an in:"body"
// parameter directly.
func (d specDialect) bodyParameter(op *specOperation) *docmodel.Parameter {
	switch d {
	case dialectOpenAPI3:
		if op.RequestBody == nil || len(op.RequestBody.Content) == 0 {
			return nil
		}
		media, ok := op.RequestBody.Content["application/json"]
		if !ok {
			types := make([]string, 0, len(op.RequestBody.Content))
			for t := range op.RequestBody.Content {
				types = append(types, t)
			}
			sort.Strings(types)
			media = op.RequestBody.Content[types[0]]
		}
		return &docmodel.Parameter{
			Name:        "body",
			In:          docmodel.LocationBody,
			Description: op.RequestBody.Description,
			Required:    op.RequestBody.Required,
			Type:        schemaKind(media.Schema, "object"),
			Schema:      media.Schema,
			Example:     media.Example,
		}
	case dialectSwagger2:
		for i := range op.Parameters {
			p := &op.Parameters[i]
			if p.In != "body" {
				continue
			}
			name := p.Name
			if name == "" {
				name = "body"
			}
			return &docmodel.Parameter{
				Name:        name,
				In:          docmodel.LocationBody,
				Description: p.Description,
				Required:    p.Required,
				Type:        schemaKind(p.Schema, "object"),
				Schema:      p.Schema,
				Example:     p.Example,
			}
		}
	}
	return nil
}

// responseSchema extracts the documented schema for one response.
func (d specDialect) responseSchema(r *specResponse) (*docmodel.SchemaNode, any) {
	switch d {
	case dialectOpenAPI3:
		if len(r.Content) == 0 {
			return nil, nil
		}
		if media, ok := r.Content["application/json"]; ok {
			return media.Schema, media.Example
		}
		types := make([]string, 0, len(r.Content))
		for t := range r.Content {
			types = append(types, t)
		}
		sort.Strings(types)
		media := r.Content[types[0]]
		return media.Schema, media.Example
	case dialectSwagger2:
		return r.Schema, nil
	}
	return nil, nil
}

// buildEndpoint emits one Endpoint for a declared verb. Path-level parameters
// are merged first so operation-level entries are not shadowed; a single body
// parameter is synthesized from the dialect's request-body construct.
func buildEndpoint(dialect specDialect, path, method string, item *specPathItem, op *specOperation) docmodel.Endpoint {
	ep := docmodel.Endpoint{
		Path:        path,
		Method:      method,
		Description: op.Description,
		Summary:     op.Summary,
		OperationID: op.OperationID,
		Tags:        op.Tags,
	}

	for i := range item.Parameters {
		if p := normalizeParameter(&item.Parameters[i]); p != nil {
			ep.Parameters = append(ep.Parameters, *p)
		}
	}
	for i := range op.Parameters {
		if p := normalizeParameter(&op.Parameters[i]); p != nil {
			ep.Parameters = append(ep.Parameters, *p)
		}
	}
	if body := dialect.bodyParameter(op); body != nil {
		ep.Parameters = append(ep.Parameters, *body)
	}

	ep.Responses = buildResponses(dialect, op.Responses)

	return ep
}

// normalizeParameter converts a declared parameter, skipping body parameters
// (synthesized separately). Path parameters are required regardless of the
// declared flag.
func normalizeParameter(p *specParameter) *docmodel.Parameter {
	if p.In == "body" {
		return nil
	}

	loc := docmodel.Location(p.In)
	switch loc {
	case docmodel.LocationPath, docmodel.LocationQuery, docmodel.LocationHeader:
	default:
		loc = docmodel.LocationQuery
	}

	kind := p.Type
	if kind == "" {
		kind = schemaKind(p.Schema, "string")
	}

	return &docmodel.Parameter{
		Name:        p.Name,
		In:          loc,
		Description: p.Description,
		Required:    p.Required || loc == docmodel.LocationPath,
		Type:        kind,
		Schema:      p.Schema,
		Example:     p.Example,
	}
}

// buildResponses keeps only responses whose status key parses as an integer;
// non-numeric keys such as "default" are skipped. Output is ordered by
// status code.
func buildResponses(dialect specDialect, responses map[string]specResponse) []docmodel.Response {
	if len(responses) == 0 {
		return nil
	}

	codes := make([]int, 0, len(responses))
	byCode := make(map[int]specResponse, len(responses))
	for key, r := range responses {
		code, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		codes = append(codes, code)
		byCode[code] = r
	}
	sort.Ints(codes)

	out := make([]docmodel.Response, 0, len(codes))
	for _, code := range codes {
		r := byCode[code]
		schema, example := dialect.responseSchema(&r)
		out = append(out, docmodel.Response{
			StatusCode:  code,
			Description: r.Description,
			Schema:      schema,
			Example:     example,
		})
	}
	return out
}

// schemaKind returns the coarse type declared by a schema node, or fallback.
func schemaKind(s *docmodel.SchemaNode, fallback string) string {
	if s != nil && s.Type != "" {
		return s.Type
	}
	return fallback
}
