// Package trace provides a minimal span abstraction for observing document
// loads and tool invocations without binding the core pipeline to a specific
// telemetry backend.
package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
)

// Attrs carries span attributes.
type Attrs map[string]any

// Tracer runs fn inside a named span. Implementations decide what, if
// anything, to record. The error from fn is always returned unchanged.
type Tracer func(ctx context.Context, span string, attrs Attrs, fn func(context.Context) error) error

// Noop returns a tracer that just runs fn.
func Noop() Tracer {
	return func(ctx context.Context, _ string, _ Attrs, fn func(context.Context) error) error {
		return fn(ctx)
	}
}

// Logging returns a tracer that records span duration and outcome through
// the application logger.
func Logging(logger *common.Logger) Tracer {
	return func(ctx context.Context, span string, attrs Attrs, fn func(context.Context) error) error {
		start := time.Now()
		err := fn(ctx)
		evt := logger.Debug()
		if err != nil {
			evt = logger.Warn().Err(err)
		}
		evt = evt.Str("span", span).Dur("duration", time.Since(start))
		for k, v := range attrs {
			evt = evt.Str(k, fmt.Sprint(v))
		}
		evt.Msg("span complete")
		return err
	}
}
