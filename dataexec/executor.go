// Package dataexec "executes" declarative config parts: TOML, YAML and JSON files
// are parsed into a map[string]any, which is what a config Loader expects a part
// to evaluate to.
package dataexec

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"

	"github.com/skosovsky/partloader"
)

// Ensures Executor implements partloader.Executor.
var _ partloader.Executor = (*Executor)(nil)

// ErrUnsupportedFormat is returned for file extensions without a parser.
var ErrUnsupportedFormat = errors.New("dataexec: unsupported file format")

// Executor parses data files by extension.
type Executor struct {
	fs afero.Fs
}

// Option configures an Executor.
type Option func(*Executor)

// WithFS sets the filesystem files are read from. Default is the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(e *Executor) {
		if fsys != nil {
			e.fs = fsys
		}
	}
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Supports reports whether path has a parseable extension.
func Supports(path string) bool {
	_, err := parserFor(path)
	return err == nil
}

// Execute parses the file at path. ExecOptions are ignored: data files have no scope.
func (e *Executor) Execute(ctx context.Context, path string, _ partloader.ExecOptions) (any, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, fmt.Errorf("dataexec: read %s: %w", path, err)
	}
	k := koanf.New("::")
	if err := k.Load(&rawBytesProvider{bytes: data}, parser); err != nil {
		return nil, fmt.Errorf("dataexec: parse %s: %w", path, err)
	}
	return k.Raw(), nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml", ".json":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]any, error) {
	return nil, errors.New("not implemented")
}
