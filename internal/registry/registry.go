// Package registry accumulates synthesized tools from concurrently loaded
// documents. It is append-only: tools are never removed once registered.
package registry

import (
	"strconv"
	"sync"

	"github.com/RETR0-OS/Doc2Mcp/internal/tools"
)

// Registry is the shared accumulation of tool descriptors across all loaded
// documents. Safe for concurrent registration.
type Registry struct {
	mu    sync.Mutex
	tools []*tools.Descriptor
	names map[string]bool
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{names: make(map[string]bool)}
}

// Add registers a descriptor, suffixing its name with a counter when the
// name is already taken. The final name is written back to the descriptor
// and returned.
func (r *Registry) Add(d *tools.Descriptor) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := d.Name
	for i := 2; r.names[name]; i++ {
		name = d.Name + "_" + strconv.Itoa(i)
	}
	r.names[name] = true
	d.Name = name
	r.tools = append(r.tools, d)
	return name
}

// Tools returns a snapshot of the registered descriptors.
func (r *Registry) Tools() []*tools.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*tools.Descriptor, len(r.tools))
	copy(out, r.tools)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tools)
}
