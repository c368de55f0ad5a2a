package partloader

import "context"

// ExecOptions controls a single file execution.
type ExecOptions struct {
	// Once skips execution when the same path was already executed by this Executor.
	Once bool
	// Vars are exposed to the executed file as implicit variables.
	Vars map[string]any
}

// Executor runs a located file and returns the value it evaluates to (nil when it yields nothing).
type Executor interface {
	Execute(ctx context.Context, path string, opts ExecOptions) (any, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, path string, opts ExecOptions) (any, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, path string, opts ExecOptions) (any, error) {
	return f(ctx, path, opts)
}

// nopExecutor locates without running anything.
type nopExecutor struct{}

func (nopExecutor) Execute(context.Context, string, ExecOptions) (any, error) { return nil, nil }
