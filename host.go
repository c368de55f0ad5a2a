package partloader

import "sync"

// Host is the long-lived context shared by the loaders of one application:
// theme directories, extension hooks, the variable scope executed files see,
// and the shared template data store.
//
// Construct one Host per process (or per logical request) and pass it to every
// Loader that should share hooks and data.
type Host struct {
	themes   Themes
	hooks    *Hooks
	vars     *Vars
	dataOnce sync.Once
	data     *Store
}

// NewHost creates a Host. themes may be nil when no theme directories exist.
func NewHost(themes Themes) *Host {
	return &Host{
		themes: themes,
		hooks:  NewHooks(),
		vars:   NewVars(),
	}
}

// Themes returns the theme directory provider, possibly nil.
func (h *Host) Themes() Themes { return h.themes }

// Hooks returns the hook registry.
func (h *Host) Hooks() *Hooks { return h.hooks }

// Vars returns the variable scope.
func (h *Host) Vars() *Vars { return h.vars }

// TemplateData returns the shared template data store. It is created on first
// call and the same Store is returned for the rest of the Host's lifetime.
func (h *Host) TemplateData() *Store {
	h.dataOnce.Do(func() {
		h.data = NewStore()
	})
	return h.data
}
