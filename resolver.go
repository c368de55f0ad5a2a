package partloader

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"
)

// Resolver finds the first existing file among candidate filenames and search paths.
// Results, including misses, are cached per (filenames, paths) query for the
// Resolver's lifetime and never invalidated. Safe for concurrent use.
type Resolver struct {
	fs     afero.Fs
	logger zerolog.Logger
	mu     sync.RWMutex
	cache  map[string]string // "" records a miss
	sf     singleflight.Group
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for cache and lookup events.
func WithResolverLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a Resolver that checks files on fsys. nil means the OS filesystem.
func NewResolver(fsys afero.Fs, opts ...ResolverOption) *Resolver {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	r := &Resolver{
		fs:     fsys,
		logger: zerolog.Nop(),
		cache:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Locate returns the first regular file found, trying each filename (in order)
// in every path (in order) before moving to the next filename. Paths must already
// end in a separator; see SearchPaths.Ordered and NormalizeDir.
// Returns an error wrapping ErrNotFound when nothing matches.
func (r *Resolver) Locate(filenames, paths []string) (string, error) {
	key := CacheKey(filenames, paths)

	r.mu.RLock()
	located, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		r.logger.Trace().Str("key", key).Str("located", located).Msg("resolver cache hit")
		return located, notFound(located, filenames)
	}

	v, _, _ := r.sf.Do(key, func() (any, error) {
		r.mu.RLock()
		located, ok := r.cache[key]
		r.mu.RUnlock()
		if ok {
			return located, nil
		}
		located = r.search(filenames, paths)
		r.mu.Lock()
		r.cache[key] = located
		r.mu.Unlock()
		r.logger.Debug().
			Strs("filenames", filenames).
			Strs("paths", paths).
			Str("located", located).
			Msg("resolver lookup")
		return located, nil
	})
	located = v.(string)
	return located, notFound(located, filenames)
}

// Len returns the number of cached queries.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *Resolver) search(filenames, paths []string) string {
	for _, filename := range filenames {
		filename = CleanFilename(filename)
		if filename == "" {
			continue
		}
		for _, path := range paths {
			candidate := path + filename
			info, err := r.fs.Stat(candidate)
			if err == nil && info.Mode().IsRegular() {
				return candidate
			}
		}
	}
	return ""
}

// CleanFilename trims leading slashes and replaces spaces with dashes.
func CleanFilename(filename string) string {
	return strings.ReplaceAll(strings.TrimLeft(filename, "/"), " ", "-")
}

// CacheKey derives the resolver cache key for a (filenames, paths) query.
func CacheKey(filenames, paths []string) string {
	h := sha256.New()
	for _, f := range filenames {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func notFound(located string, filenames []string) error {
	if located != "" {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNotFound, filenames)
}
