package tools

import (
	"strings"
	"unicode"
)

// ToolName derives the advertised name for an endpoint. A declared operation
// id wins; otherwise the name is built deterministically from the verb and
// the non-placeholder path segments: GET /users becomes getUsers,
// DELETE /users/{id} becomes deleteUsers.
func ToolName(operationID, method, path string) string {
	if operationID != "" {
		return sanitizeIdentifier(operationID)
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(method))

	for _, seg := range strings.Split(path, "/") {
		if seg == "" || isPlaceholder(seg) {
			continue
		}
		b.WriteString(titleCase(seg))
	}

	return sanitizeIdentifier(b.String())
}

// isPlaceholder reports whether a path segment is a {name} or :name
// substitution slot.
func isPlaceholder(seg string) bool {
	return strings.HasPrefix(seg, "{") || strings.HasPrefix(seg, ":")
}

// titleCase upper-cases the first letter of a segment.
func titleCase(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

// sanitizeIdentifier collapses runs of non-identifier characters to a single
// underscore and escapes a leading digit with one.
func sanitizeIdentifier(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}
