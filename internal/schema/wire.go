package schema

// Wire renders an internal validation schema as a plain JSON-Schema-shaped
// object for advertisement to the calling agent. It is never consulted for
// internal validation. For object schemas, properties is always present and
// required is omitted when empty.
func Wire(t *Type) map[string]any {
	if t == nil {
		return map[string]any{}
	}

	out := map[string]any{}
	if t.Description != "" {
		out["description"] = t.Description
	}

	switch t.Kind {
	case KindString:
		out["type"] = "string"
		if len(t.Enum) > 0 {
			out["enum"] = append([]string(nil), t.Enum...)
		}
		if t.Pattern != nil {
			out["pattern"] = t.Pattern.String()
		}
		if t.MinLength != nil {
			out["minLength"] = *t.MinLength
		}
		if t.MaxLength != nil {
			out["maxLength"] = *t.MaxLength
		}
	case KindNumber:
		if t.Integer {
			out["type"] = "integer"
		} else {
			out["type"] = "number"
		}
		if t.Minimum != nil {
			out["minimum"] = *t.Minimum
		}
		if t.Maximum != nil {
			out["maximum"] = *t.Maximum
		}
	case KindBoolean:
		out["type"] = "boolean"
	case KindArray:
		out["type"] = "array"
		out["items"] = Wire(t.Items)
		if t.MinItems != nil {
			out["minItems"] = *t.MinItems
		}
		if t.MaxItems != nil {
			out["maxItems"] = *t.MaxItems
		}
	case KindObject:
		out["type"] = "object"
		props := make(map[string]any, len(t.Fields))
		for name, field := range t.Fields {
			props[name] = Wire(field)
		}
		out["properties"] = props
		if len(t.RequiredFields) > 0 {
			out["required"] = append([]string(nil), t.RequiredFields...)
		}
	default:
		// Any renders as an unconstrained schema.
	}

	return out
}
