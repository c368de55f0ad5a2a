package partloader

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// Default search path priorities. Lower numbers are searched first.
const (
	PriorityChildTheme  = 1
	PriorityParentTheme = 10
	PriorityPlugin      = 100
)

// Themes reports the host's active theme directories.
// StylesheetDirectory equals TemplateDirectory unless a child theme is active.
type Themes interface {
	TemplateDirectory() string
	StylesheetDirectory() string
}

// ThemeDirs is a static Themes value.
type ThemeDirs struct {
	Template   string // parent (or only) theme
	Stylesheet string // child theme; empty means same as Template
}

// TemplateDirectory implements Themes.
func (t ThemeDirs) TemplateDirectory() string { return t.Template }

// StylesheetDirectory implements Themes.
func (t ThemeDirs) StylesheetDirectory() string {
	if t.Stylesheet == "" {
		return t.Template
	}
	return t.Stylesheet
}

// SearchPaths maps a priority to a directory.
type SearchPaths map[int]string

// DefaultSearchPaths returns the child theme (only when one is active), parent theme
// and plugin entries. themes may be nil when the host has no theme.
func DefaultSearchPaths(themes Themes, themeFileDir, pluginDir string) SearchPaths {
	paths := SearchPaths{PriorityPlugin: pluginDir}
	if themes == nil {
		return paths
	}
	parent := themes.TemplateDirectory()
	if parent != "" {
		paths[PriorityParentTheme] = filepath.Join(parent, themeFileDir)
	}
	if child := themes.StylesheetDirectory(); child != "" && child != parent {
		paths[PriorityChildTheme] = filepath.Join(child, themeFileDir)
	}
	return paths
}

// Ordered returns the directories sorted by ascending priority, each ending in
// exactly one separator. Empty directories are skipped.
func (p SearchPaths) Ordered() []string {
	out := make([]string, 0, len(p))
	for _, priority := range slices.Sorted(maps.Keys(p)) {
		if dir := NormalizeDir(p[priority]); dir != "" {
			out = append(out, dir)
		}
	}
	return out
}

// Clone returns a copy of p.
func (p SearchPaths) Clone() SearchPaths {
	return maps.Clone(p)
}

// NormalizeDir returns dir with exactly one trailing separator, or "" for an empty dir.
func NormalizeDir(dir string) string {
	if dir == "" {
		return ""
	}
	trimmed := strings.TrimRight(dir, `/\`)
	return trimmed + string(filepath.Separator)
}
