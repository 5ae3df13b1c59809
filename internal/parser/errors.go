package parser

import "fmt"

// FormatError indicates content could not be parsed in any recognized shape.
type FormatError struct {
	Source string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unparseable document %s: %s", e.Source, e.Reason)
}

// UnsupportedSpecError indicates a recognizable specification document whose
// dialect this parser does not handle.
type UnsupportedSpecError struct {
	Source  string
	Dialect string
}

func (e *UnsupportedSpecError) Error() string {
	if e.Dialect == "" {
		return fmt.Sprintf("specification %s declares no recognizable dialect", e.Source)
	}
	return fmt.Sprintf("specification %s uses unsupported dialect %q", e.Source, e.Dialect)
}
