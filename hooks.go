package partloader

import (
	"slices"
	"sync"
)

// FilenameFilter rewrites the candidate filenames for slug and name.
// The returned list replaces the input and must stay in priority order.
type FilenameFilter func(files []string, slug, name string) []string

// PathFilter rewrites the priority-to-directory search path mapping.
type PathFilter func(paths SearchPaths) SearchPaths

// Action observes a part request before it is resolved.
type Action func(slug, name string)

// Hooks is the extension point registry shared by every Loader of a Host.
// Handlers registered under the same event run in registration order; each filter
// receives the previous filter's output, so the last one wins.
// Safe for concurrent use.
type Hooks struct {
	mu        sync.RWMutex
	filenames map[string][]FilenameFilter
	paths     map[string][]PathFilter
	actions   map[string][]Action
}

// NewHooks returns an empty registry.
func NewHooks() *Hooks {
	return &Hooks{
		filenames: make(map[string][]FilenameFilter),
		paths:     make(map[string][]PathFilter),
		actions:   make(map[string][]Action),
	}
}

// AddFilenameFilter registers fn under event (e.g. "myplugin_get_part").
func (h *Hooks) AddFilenameFilter(event string, fn FilenameFilter) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filenames[event] = append(h.filenames[event], fn)
}

// AddPathFilter registers fn under event (e.g. "myplugin_file_paths").
func (h *Hooks) AddPathFilter(event string, fn PathFilter) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths[event] = append(h.paths[event], fn)
}

// AddAction registers fn under event (e.g. "get_part_order").
func (h *Hooks) AddAction(event string, fn Action) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions[event] = append(h.actions[event], fn)
}

// FilterFilenames runs the filename filters registered under event over files.
func (h *Hooks) FilterFilenames(event string, files []string, slug, name string) []string {
	h.mu.RLock()
	filters := slices.Clone(h.filenames[event])
	h.mu.RUnlock()
	return applyFilenameFilters(filters, files, slug, name)
}

// FilterPaths runs the path filters registered under event over paths.
func (h *Hooks) FilterPaths(event string, paths SearchPaths) SearchPaths {
	h.mu.RLock()
	filters := slices.Clone(h.paths[event])
	h.mu.RUnlock()
	return applyPathFilters(filters, paths)
}

// Do notifies the actions registered under event.
func (h *Hooks) Do(event, slug, name string) {
	h.mu.RLock()
	actions := slices.Clone(h.actions[event])
	h.mu.RUnlock()
	for _, fn := range actions {
		fn(slug, name)
	}
}

func applyFilenameFilters(filters []FilenameFilter, files []string, slug, name string) []string {
	for _, fn := range filters {
		files = fn(files, slug, name)
	}
	return files
}

func applyPathFilters(filters []PathFilter, paths SearchPaths) SearchPaths {
	for _, fn := range filters {
		paths = fn(paths)
	}
	return paths
}
