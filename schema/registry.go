package schema

import (
	"fmt"
	"maps"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]*Schema)
)

// Register adds a named schema to the registry.
func Register(s *Schema) error {
	if s == nil {
		return fmt.Errorf("cannot register nil schema")
	}
	if s.Name == "" {
		return fmt.Errorf("schema must have a name")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[s.Name]; exists {
		return fmt.Errorf("schema %q already registered", s.Name)
	}
	registry[s.Name] = s
	return nil
}

// Lookup returns the registered schema called name, or nil.
func Lookup(name string) *Schema {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// All returns a copy of the registry.
func All() map[string]*Schema {
	mu.RLock()
	defer mu.RUnlock()
	return maps.Clone(registry)
}
