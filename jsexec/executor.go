package jsexec

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/skosovsky/partloader"
)

// Ensures Executor implements partloader.Executor.
var _ partloader.Executor = (*Executor)(nil)

// ErrInterrupted is returned when the context is cancelled while a script runs.
var ErrInterrupted = errors.New("jsexec: script interrupted")

// Executor runs each file in a fresh goja runtime.
// It remembers which paths it has run successfully so ExecOptions.Once can skip
// repeats; a failed run is not remembered.
type Executor struct {
	fs     afero.Fs
	logger zerolog.Logger
	mu     sync.Mutex
	ran    map[string]struct{}
}

// Option configures an Executor.
type Option func(*Executor)

// WithFS sets the filesystem scripts are read from. Default is the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(e *Executor) {
		if fsys != nil {
			e.fs = fsys
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		fs:     afero.NewOsFs(),
		logger: zerolog.Nop(),
		ran:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the script at path and exports its completion value.
// undefined and null export as nil.
func (e *Executor) Execute(ctx context.Context, path string, opts partloader.ExecOptions) (any, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if opts.Once && e.hasRun(path) {
		e.logger.Debug().Str("path", path).Msg("script already executed, skipping")
		return nil, nil
	}
	src, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, fmt.Errorf("jsexec: read %s: %w", path, err)
	}
	program, err := goja.Compile(path, string(src), false)
	if err != nil {
		return nil, fmt.Errorf("jsexec: compile %s: %w", path, err)
	}

	vm := goja.New()
	for name, value := range opts.Vars {
		if err := vm.Set(name, value); err != nil {
			return nil, fmt.Errorf("jsexec: set %q: %w", name, err)
		}
	}
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ErrInterrupted)
	})
	defer stop()

	value, err := vm.RunProgram(program)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("%w: %s", ErrInterrupted, path)
		}
		return nil, fmt.Errorf("jsexec: run %s: %w", path, err)
	}
	e.markRan(path)
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, nil
	}
	return value.Export(), nil
}

// hasRun reports whether path has completed a run.
func (e *Executor) hasRun(path string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.ran[path]
	return ok
}

// markRan records a successful run of path.
func (e *Executor) markRan(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ran[path] = struct{}{}
}
