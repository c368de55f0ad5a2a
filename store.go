package partloader

import (
	"maps"
	"slices"
	"sync"

	"github.com/skosovsky/partloader/internal/slug"
)

// Store holds data for templates as template -> key -> value.
// Template names and keys are slugified on every insert and lookup, so
// "Order Pending" and "order-pending" address the same entry.
// Safe for concurrent use.
//
// Usage:
//
//	data := host.TemplateData()
//	_ = data.AddTemplate("order", nil)       // optional when using Update
//	_ = data.Add("order", "is_private", true) // never overwrites
//	data.Update("order", "post", post)        // always overwrites
//	private := data.GetOr("order", "is_private", false)
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{data: make(map[string]map[string]any)}
}

// TemplateExists reports whether template has been added.
func (s *Store) TemplateExists(template string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[slug.Make(template)]
	return ok
}

// Exists reports whether key is set within template.
func (s *Store) Exists(template, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k := slug.Make(key)
	if k == "" {
		return false
	}
	_, ok := s.data[slug.Make(template)][k]
	return ok
}

// AddTemplate adds template with optional initial data.
// Returns a *StoreError wrapping ErrAlreadyExists if the template is present.
func (s *Store) AddTemplate(template string, data map[string]any) error {
	t := slug.Make(template)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[t]; ok {
		return &StoreError{Template: t, Err: ErrAlreadyExists}
	}
	s.data[t] = normalizeKeys(data)
	return nil
}

// Add sets key within template, creating the template if needed.
// It never overwrites: returns a *StoreError wrapping ErrAlreadyExists if key is set.
// A key that normalizes to nothing yields a *StoreError wrapping ErrInvalidKey.
func (s *Store) Add(template, key string, value any) error {
	t, k := slug.Make(template), slug.Make(key)
	if k == "" {
		return &StoreError{Template: t, Key: key, Err: ErrInvalidKey}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[t][k]; ok {
		return &StoreError{Template: t, Key: k, Err: ErrAlreadyExists}
	}
	s.put(t, k, value)
	return nil
}

// Update sets key within template, overwriting any existing value and creating
// the template if needed. An empty key, or one that normalizes to nothing, only
// ensures the template exists.
func (s *Store) Update(template, key string, value any) {
	t, k := slug.Make(template), slug.Make(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if k == "" {
		if _, ok := s.data[t]; !ok {
			s.data[t] = make(map[string]any)
		}
		return
	}
	s.put(t, k, value)
}

// Set replaces the whole mapping of template.
func (s *Store) Set(template string, data map[string]any) {
	t := slug.Make(template)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[t] = normalizeKeys(data)
}

// Get returns the value of key within template, or a copy of the whole template
// mapping when key is empty. Missing entries yield a *StoreError wrapping ErrKeyNotFound.
func (s *Store) Get(template, key string) (any, error) {
	t, k := slug.Make(template), slug.Make(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, ok := s.data[t]
	if !ok {
		return nil, &StoreError{Template: t, Key: k, Err: ErrKeyNotFound}
	}
	if key == "" {
		return maps.Clone(values), nil
	}
	if k == "" {
		return nil, &StoreError{Template: t, Key: key, Err: ErrKeyNotFound}
	}
	value, ok := values[k]
	if !ok {
		return nil, &StoreError{Template: t, Key: k, Err: ErrKeyNotFound}
	}
	return value, nil
}

// GetOr is like Get but returns fallback instead of an error.
func (s *Store) GetOr(template, key string, fallback any) any {
	value, err := s.Get(template, key)
	if err != nil {
		return fallback
	}
	return value
}

// Templates returns the stored template names, sorted.
func (s *Store) Templates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data))
}

func (s *Store) put(t, k string, value any) {
	values, ok := s.data[t]
	if !ok {
		values = make(map[string]any)
		s.data[t] = values
	}
	values[k] = value
}

func normalizeKeys(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if key := slug.Make(k); key != "" {
			out[key] = v
		}
	}
	return out
}
