package schema

import (
	"fmt"
	"math"
)

// Validate checks an argument map against an object schema before a request
// is placed. Failures name the offending field so the calling agent can
// correct its arguments.
func Validate(t *Type, args map[string]any) error {
	if t == nil || t.Kind != KindObject {
		return nil
	}
	return validateObject(t, args, "")
}

func validateObject(t *Type, value map[string]any, path string) error {
	for _, name := range t.RequiredFields {
		if _, ok := value[name]; !ok {
			return fmt.Errorf("missing required field %s", joinPath(path, name))
		}
	}
	for name, v := range value {
		field, ok := t.Fields[name]
		if !ok {
			// Undeclared fields pass through untouched.
			continue
		}
		if err := validateValue(field, v, joinPath(path, name)); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(t *Type, value any, path string) error {
	if t == nil || value == nil {
		return nil
	}

	switch t.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string, got %T", path, value)
		}
		if t.MinLength != nil && len(s) < *t.MinLength {
			return fmt.Errorf("field %s: shorter than minimum length %d", path, *t.MinLength)
		}
		if t.MaxLength != nil && len(s) > *t.MaxLength {
			return fmt.Errorf("field %s: longer than maximum length %d", path, *t.MaxLength)
		}
		if t.Pattern != nil && !t.Pattern.MatchString(s) {
			return fmt.Errorf("field %s: does not match pattern %s", path, t.Pattern.String())
		}
		if len(t.Enum) > 0 {
			for _, e := range t.Enum {
				if s == e {
					return nil
				}
			}
			return fmt.Errorf("field %s: %q is not one of the allowed values", path, s)
		}
	case KindNumber:
		n, ok := asFloat(value)
		if !ok {
			return fmt.Errorf("field %s: expected number, got %T", path, value)
		}
		if t.Integer && n != math.Trunc(n) {
			return fmt.Errorf("field %s: expected integer, got %v", path, value)
		}
		if t.Minimum != nil && n < *t.Minimum {
			return fmt.Errorf("field %s: below minimum %v", path, *t.Minimum)
		}
		if t.Maximum != nil && n > *t.Maximum {
			return fmt.Errorf("field %s: above maximum %v", path, *t.Maximum)
		}
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("field %s: expected boolean, got %T", path, value)
		}
	case KindArray:
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("field %s: expected array, got %T", path, value)
		}
		if t.MinItems != nil && len(items) < *t.MinItems {
			return fmt.Errorf("field %s: fewer than %d items", path, *t.MinItems)
		}
		if t.MaxItems != nil && len(items) > *t.MaxItems {
			return fmt.Errorf("field %s: more than %d items", path, *t.MaxItems)
		}
		for i, item := range items {
			if err := validateValue(t.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("field %s: expected object, got %T", path, value)
		}
		return validateObject(t, obj, path)
	}

	return nil
}

// asFloat accepts the numeric shapes JSON decoding produces.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
