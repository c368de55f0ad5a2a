package partloader

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/skosovsky/partloader/internal/cast"
)

// Loader resolves parts by slug and optional name against the child theme,
// parent theme and plugin directories, and optionally executes them.
//
// A Loader caches every resolution for its lifetime; create a new Loader to
// observe files added after a lookup.
type Loader struct {
	host     *Host
	kind     Kind
	cfg      Config
	fs       afero.Fs
	resolver *Resolver
	executor Executor
	logger   zerolog.Logger

	filenameFilters []FilenameFilter
	pathFilters     []PathFilter

	mu       sync.Mutex
	dataVars []string // injected template data variable names, deduplicated
}

// Part is a located file and, when it was executed, the value it evaluated to.
type Part struct {
	Path  string
	Value any
}

// New creates a Loader for kind. Empty Config fields fall back to the kind's
// directories and DefaultPrefix. host may be nil for a standalone Loader without themes.
func New(host *Host, kind Kind, cfg Config, opts ...Option) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if host == nil {
		host = NewHost(nil)
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.ThemeFileDirectory == "" {
		cfg.ThemeFileDirectory = kind.ThemeFileDirectory
	}
	if cfg.FilesDirectory == "" {
		cfg.FilesDirectory = kind.FilesDirectory
	}
	if kind.Names == nil {
		kind.Names = CandidateNames
	}
	l := &Loader{
		host:     host,
		kind:     kind,
		cfg:      cfg,
		fs:       afero.NewOsFs(),
		executor: nopExecutor{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With().Str("kind", kind.Name).Str("prefix", l.Prefix()).Logger()
	l.resolver = NewResolver(l.fs, WithResolverLogger(l.logger))
	return l, nil
}

// NewFileLoader creates a Loader of FileKind.
func NewFileLoader(host *Host, cfg Config, opts ...Option) (*Loader, error) {
	return New(host, FileKind, cfg, opts...)
}

// NewTemplateLoader creates a Loader of TemplateKind.
func NewTemplateLoader(host *Host, cfg Config, opts ...Option) (*Loader, error) {
	return New(host, TemplateKind, cfg, opts...)
}

// NewConfigLoader creates a Loader of ConfigKind.
func NewConfigLoader(host *Host, cfg Config, opts ...Option) (*Loader, error) {
	return New(host, ConfigKind, cfg, opts...)
}

// Config returns the effective configuration.
func (l *Loader) Config() Config { return l.cfg }

// Kind returns the loader kind.
func (l *Loader) Kind() Kind { return l.kind }

// Host returns the host the loader belongs to.
func (l *Loader) Host() *Host { return l.host }

// Resolver returns the loader's resolver.
func (l *Loader) Resolver() *Resolver { return l.resolver }

// Prefix returns the hook namespace: Config.Prefix with dashes replaced by underscores.
func (l *Loader) Prefix() string {
	return strings.ReplaceAll(l.cfg.Prefix, "-", "_")
}

// Dir returns the plugin's default files directory.
func (l *Loader) Dir() string {
	return filepath.Join(l.cfg.PluginDirectory, l.cfg.FilesDirectory)
}

// Filenames returns the candidate filenames for slug and name after filters ran.
func (l *Loader) Filenames(slug, name string) []string {
	files := l.kind.Names(slug, name, l.kind.Extension)
	files = applyFilenameFilters(l.filenameFilters, files, slug, name)
	return l.host.Hooks().FilterFilenames(l.Prefix()+"_get_part", files, slug, name)
}

// SearchPaths returns the ordered, separator-terminated directories to search after filters ran.
func (l *Loader) SearchPaths() []string {
	paths := DefaultSearchPaths(l.host.Themes(), l.cfg.ThemeFileDirectory, l.Dir())
	paths = applyPathFilters(l.pathFilters, paths)
	paths = l.host.Hooks().FilterPaths(l.Prefix()+"_file_paths", paths)
	return paths.Ordered()
}

// Get returns the path of the highest priority file for slug and name.
// It notifies the "get_part_{slug}" and "{prefix}_get_part_{slug}" actions first.
// Returns an error wrapping ErrNotFound when no candidate exists.
func (l *Loader) Get(slug, name string) (string, error) {
	hooks := l.host.Hooks()
	hooks.Do("get_part_"+slug, slug, name)
	hooks.Do(l.Prefix()+"_get_part_"+slug, slug, name)
	return l.Locate(l.Filenames(slug, name))
}

// Locate returns the first existing file among filenames. With no paths the
// default search paths are used; explicit paths are normalized first.
func (l *Loader) Locate(filenames []string, paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = l.SearchPaths()
	} else {
		normalized := make([]string, 0, len(paths))
		for _, p := range paths {
			if dir := NormalizeDir(p); dir != "" {
				normalized = append(normalized, dir)
			}
		}
		paths = normalized
	}
	return l.resolver.Locate(filenames, paths)
}

// Load locates slug and name and executes the file.
func (l *Loader) Load(ctx context.Context, slug, name string) (*Part, error) {
	path, err := l.Get(slug, name)
	if err != nil {
		return nil, err
	}
	value, err := l.execute(ctx, path, false)
	if err != nil {
		return nil, err
	}
	return &Part{Path: path, Value: value}, nil
}

// LoadTemplatePart is Load for template parts.
func (l *Loader) LoadTemplatePart(ctx context.Context, slug, name string) (*Part, error) {
	return l.Load(ctx, slug, name)
}

// GetTemplatePart locates slug and name, executing the file only when load is true.
func (l *Loader) GetTemplatePart(ctx context.Context, slug, name string, load bool) (*Part, error) {
	if load {
		return l.Load(ctx, slug, name)
	}
	path, err := l.Get(slug, name)
	if err != nil {
		return nil, err
	}
	return &Part{Path: path}, nil
}

// LocateTemplate locates the first of names in the default search paths and,
// when load is true, executes it. once skips files this loader's executor already ran.
func (l *Loader) LocateTemplate(ctx context.Context, names []string, load, once bool) (*Part, error) {
	path, err := l.Locate(names)
	if err != nil {
		return nil, err
	}
	part := &Part{Path: path}
	if !load {
		return part, nil
	}
	part.Value, err = l.execute(ctx, path, once)
	if err != nil {
		return nil, err
	}
	return part, nil
}

// LoadConfig executes the highest priority config file for slug and name and
// returns the mapping it evaluates to. When that yields no data, the plugin's
// default file is executed instead. Nothing found or nothing returned yields an
// empty map; a non-mapping result yields ErrInvalidData.
func (l *Loader) LoadConfig(ctx context.Context, slug, name string) (map[string]any, error) {
	files := l.Filenames(slug, name)
	primary, primaryErr := l.Locate(files)
	fallback, fallbackErr := l.Locate(files, l.Dir())

	data := map[string]any{}
	if primaryErr == nil {
		var err error
		if data, err = l.executeMapping(ctx, primary); err != nil {
			return nil, err
		}
	}
	if len(data) == 0 && fallbackErr == nil && fallback != primary {
		l.logger.Debug().Str("path", fallback).Msg("falling back to plugin default config")
		var err error
		if data, err = l.executeMapping(ctx, fallback); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// SetTemplateData exposes data to executed files under varName, or "{prefix}_data"
// when varName is empty. The name is recorded so UnsetTemplateData can remove it.
func (l *Loader) SetTemplateData(data any, varName string) *Loader {
	if varName == "" {
		varName = l.Prefix() + "_data"
	}
	l.host.Vars().Set(varName, data)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Contains(l.dataVars, varName) {
		l.dataVars = append(l.dataVars, varName)
	}
	return l
}

// UnsetTemplateData removes every variable this loader has injected.
func (l *Loader) UnsetTemplateData() *Loader {
	l.mu.Lock()
	names := l.dataVars
	l.dataVars = nil
	l.mu.Unlock()

	vars := l.host.Vars()
	for _, name := range names {
		vars.Unset(name)
	}
	return l
}

// TemplateDataVars returns the variable names currently injected by this loader.
func (l *Loader) TemplateDataVars() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.dataVars)
}

// Close removes injected template data. The Loader stays usable.
func (l *Loader) Close() error {
	l.UnsetTemplateData()
	return nil
}

func (l *Loader) execute(ctx context.Context, path string, once bool) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := ExecOptions{Once: once, Vars: l.host.Vars().Snapshot()}
	value, err := l.executor.Execute(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrExecute, path, err)
	}
	l.logger.Debug().Str("path", path).Bool("once", once).Msg("executed file")
	return value, nil
}

func (l *Loader) executeMapping(ctx context.Context, path string) (map[string]any, error) {
	value, err := l.execute(ctx, path, false)
	if err != nil {
		return nil, err
	}
	data, ok := cast.ToStringMap(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ErrInvalidData, path, value)
	}
	return data, nil
}
