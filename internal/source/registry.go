package source

import "sync"

// Registry holds the configured connectors keyed by name.
type Registry struct {
	mu         sync.RWMutex
	connectors map[Name]Connector
}

// NewRegistry creates an empty connector registry.
func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[Name]Connector),
	}
}

// Register adds a connector to the registry.
func (r *Registry) Register(c Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectors[c.Name()] = c
}

// Get returns a connector by name, or nil if not registered.
func (r *Registry) Get(name Name) Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connectors[name]
}

// All returns the registered connectors in merge-priority order.
func (r *Registry) All() []Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []Connector
	for _, name := range AllNames() {
		if c, ok := r.connectors[name]; ok {
			result = append(result, c)
		}
	}
	return result
}
