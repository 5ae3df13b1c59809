// Package schema compiles per-parameter type descriptions into an internal
// validation representation and renders that representation back into the
// JSON-Schema-shaped object advertised to callers. Both directions are pure
// functions over value types.
package schema

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
	"github.com/RETR0-OS/Doc2Mcp/internal/docmodel"
)

// Kind tags the internal validation type.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "any"
}

// Type is the internal validation schema, a closed tagged variant compiled
// by structural recursion over the input's nested type descriptions.
type Type struct {
	Kind        Kind
	Description string

	// String constraints
	Enum      []string
	Pattern   *regexp.Regexp
	MinLength *int
	MaxLength *int

	// Number constraints
	Minimum *float64
	Maximum *float64
	Integer bool

	// Array constraints
	Items    *Type
	MinItems *int
	MaxItems *int

	// Object constraints. RequiredFields is kept sorted.
	Fields         map[string]*Type
	RequiredFields []string
}

// Compiler turns endpoint parameter lists into object validation schemas.
type Compiler struct {
	logger *common.Logger
}

// NewCompiler creates a Compiler. A nil logger is replaced with a silent one.
func NewCompiler(logger *common.Logger) *Compiler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Compiler{logger: logger}
}

// Compile converts a parameter list into one object schema whose fields are
// named after the parameters and whose required set is exactly the
// parameters marked required. An empty list compiles to an empty-properties
// object, never nil.
func (c *Compiler) Compile(params []docmodel.Parameter) *Type {
	t := &Type{
		Kind:   KindObject,
		Fields: make(map[string]*Type, len(params)),
	}

	for i := range params {
		p := &params[i]
		if p.Name == "" {
			continue
		}
		field := c.compileParameter(p)
		if field.Description == "" {
			field.Description = p.Description
		}
		t.Fields[p.Name] = field
		if p.Required {
			t.RequiredFields = append(t.RequiredFields, p.Name)
		}
	}
	sort.Strings(t.RequiredFields)

	return t
}

// compileParameter builds the field type for one parameter. A structured
// schema takes precedence over the coarse type tag.
func (c *Compiler) compileParameter(p *docmodel.Parameter) *Type {
	if p.Schema != nil {
		return c.compileNode(p.Schema, p.Name)
	}
	return &Type{Kind: kindOf(p.Type)}
}

// compileNode recursively compiles a nested type description. A
// self-contradictory constraint degrades that one node to an unconstrained
// type rather than failing the whole endpoint.
func (c *Compiler) compileNode(node *docmodel.SchemaNode, name string) *Type {
	if node == nil {
		return &Type{Kind: KindAny}
	}

	tag := node.Type
	if tag == "" {
		// Untyped nodes are classified by shape.
		switch {
		case len(node.Properties) > 0:
			tag = "object"
		case node.Items != nil:
			tag = "array"
		default:
			tag = "string"
		}
	}

	t := &Type{
		Kind:        kindOf(tag),
		Description: node.Description,
	}
	if tag == "integer" {
		t.Kind = KindNumber
		t.Integer = true
	}

	switch t.Kind {
	case KindString:
		t.MinLength = node.MinLength
		t.MaxLength = node.MaxLength
		if node.Pattern != "" {
			re, err := regexp.Compile(node.Pattern)
			if err != nil {
				c.logger.Warn().Str("field", name).Str("pattern", node.Pattern).Msg("invalid pattern, dropping constraints for field")
				return &Type{Kind: KindAny, Description: node.Description}
			}
			t.Pattern = re
		}
		for _, v := range node.Enum {
			t.Enum = append(t.Enum, fmt.Sprint(v))
		}
	case KindNumber:
		t.Minimum = node.Minimum
		t.Maximum = node.Maximum
	case KindArray:
		t.Items = c.compileNode(node.Items, name+".items")
		t.MinItems = node.MinItems
		t.MaxItems = node.MaxItems
	case KindObject:
		t.Fields = make(map[string]*Type, len(node.Properties))
		required := make(map[string]bool, len(node.Required))
		for _, r := range node.Required {
			required[r] = true
		}
		for propName, prop := range node.Properties {
			t.Fields[propName] = c.compileNode(prop, name+"."+propName)
			if required[propName] {
				t.RequiredFields = append(t.RequiredFields, propName)
			}
		}
		sort.Strings(t.RequiredFields)
	}

	return t
}

// kindOf maps a coarse type tag to its internal kind. Unknown tags map to
// Any so heuristic extraction stays resilient.
func kindOf(tag string) Kind {
	switch tag {
	case "string":
		return KindString
	case "number", "integer":
		return KindNumber
	case "boolean":
		return KindBoolean
	case "array":
		return KindArray
	case "object":
		return KindObject
	case "":
		return KindString
	}
	return KindAny
}
