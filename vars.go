package partloader

import (
	"maps"
	"sync"
)

// Vars is the host-visible variable scope handed to executed files.
// Template data injected by a Loader lives here until it is unset. Safe for concurrent use.
type Vars struct {
	mu   sync.RWMutex
	vars map[string]any
}

// NewVars returns an empty scope.
func NewVars() *Vars {
	return &Vars{vars: make(map[string]any)}
}

// Set stores value under name, replacing any previous value.
func (v *Vars) Set(name string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vars[name] = value
}

// Get returns the value stored under name.
func (v *Vars) Get(name string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.vars[name]
	return value, ok
}

// Unset removes name. Missing names are ignored.
func (v *Vars) Unset(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.vars, name)
}

// Snapshot returns a copy of the scope.
func (v *Vars) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.vars)
}
