package record

import "sync"

// Global registry instance and initialization guard.
var (
	globalRegistry *Registry
	globalOnce     sync.Once
)

// Global returns the process wide schema registry, creating an empty one on
// first use.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// ResetGlobal clears the global registry. Tests only; not safe for
// concurrent use.
func ResetGlobal() {
	globalOnce = sync.Once{}
	globalRegistry = nil
}
