package partloader

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Option configures a Loader (functional options pattern).
type Option func(*Loader)

// WithExecutor sets the Executor that runs located files. Without one, Load only locates.
func WithExecutor(e Executor) Option {
	return func(l *Loader) {
		if e != nil {
			l.executor = e
		}
	}
}

// WithFS sets the filesystem used for existence checks. Default is the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithFilenameFilter appends a loader-local filename filter. Loader-local filters
// run before the host hooks registered under "{prefix}_get_part".
func WithFilenameFilter(fn FilenameFilter) Option {
	return func(l *Loader) {
		if fn != nil {
			l.filenameFilters = append(l.filenameFilters, fn)
		}
	}
}

// WithPathFilter appends a loader-local search path filter. Loader-local filters
// run before the host hooks registered under "{prefix}_file_paths".
func WithPathFilter(fn PathFilter) Option {
	return func(l *Loader) {
		if fn != nil {
			l.pathFilters = append(l.pathFilters, fn)
		}
	}
}
