package partloader

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Locate_FilenameMajor(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/plugin/a.js", "")
	writeFile(t, fsys, "/child/b.js", "")
	writeFile(t, fsys, "/parent/b.js", "")
	r := NewResolver(fsys)

	got, err := r.Locate([]string{"a.js", "b.js"}, []string{"/child/", "/parent/", "/plugin/"})
	require.NoError(t, err)
	// a.js is tried in every path before b.js is tried at all.
	assert.Equal(t, "/plugin/a.js", got)
}

func TestResolver_Locate_PathPriority(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/child/b.js", "")
	writeFile(t, fsys, "/parent/b.js", "")
	r := NewResolver(fsys)

	got, err := r.Locate([]string{"a.js", "b.js"}, []string{"/child/", "/parent/", "/plugin/"})
	require.NoError(t, err)
	assert.Equal(t, "/child/b.js", got)
}

func TestResolver_Locate_CacheHit(t *testing.T) {
	t.Parallel()
	fsys := newCountingFs()
	writeFile(t, fsys, "/plugin/order.js", "")
	r := NewResolver(fsys)
	files := []string{"order-pending.js", "pending.js", "order.js"}
	paths := []string{"/child/", "/parent/", "/plugin/"}

	first, err := r.Locate(files, paths)
	require.NoError(t, err)
	statsAfterFirst := fsys.Stats()
	require.Positive(t, statsAfterFirst)

	second, err := r.Locate(files, paths)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, statsAfterFirst, fsys.Stats(), "cache hit must not touch the filesystem")
	assert.Equal(t, 1, r.Len())
}

func TestResolver_Locate_CachesMiss(t *testing.T) {
	t.Parallel()
	fsys := newCountingFs()
	r := NewResolver(fsys)
	files := []string{"late.js"}
	paths := []string{"/plugin/"}

	_, err := r.Locate(files, paths)
	require.ErrorIs(t, err, ErrNotFound)
	stats := fsys.Stats()

	// A file appearing later is not seen: misses are cached for the resolver's lifetime.
	writeFile(t, fsys, "/plugin/late.js", "")
	_, err = r.Locate(files, paths)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, stats, fsys.Stats())
}

func TestResolver_Locate_CleansFilenames(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/p/my-part.js", "")
	r := NewResolver(fsys)

	got, err := r.Locate([]string{"", "//my part.js"}, []string{"/p/"})
	require.NoError(t, err)
	assert.Equal(t, "/p/my-part.js", got)
}

func TestResolver_Locate_SkipsDirectories(t *testing.T) {
	t.Parallel()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/p/order.js", 0o755))
	r := NewResolver(fsys)

	_, err := r.Locate([]string{"order.js"}, []string{"/p/"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_Locate_NoPaths(t *testing.T) {
	t.Parallel()
	r := NewResolver(afero.NewMemMapFs())
	_, err := r.Locate([]string{"order.js"}, nil)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.Locate(nil, []string{"/p/"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_Locate_Concurrent(t *testing.T) {
	t.Parallel()
	fsys := newCountingFs()
	writeFile(t, fsys, "/parent/order.js", "")

	// One sequential lookup on a separate resolver gives the cost of a single search.
	probe := NewResolver(fsys)
	files := []string{"order.js"}
	paths := []string{"/child/", "/parent/", "/plugin/"}
	_, err := probe.Locate(files, paths)
	require.NoError(t, err)
	single := fsys.Stats()

	r := NewResolver(fsys)
	type result struct {
		path string
		err  error
	}
	done := make(chan result, 50)
	for range 50 {
		go func() {
			path, err := r.Locate(files, paths)
			done <- result{path: path, err: err}
		}()
	}
	for range 50 {
		res := <-done
		require.NoError(t, res.err)
		assert.Equal(t, "/parent/order.js", res.path)
	}
	assert.Equal(t, 2*single, fsys.Stats(), "concurrent identical lookups search once")
}

func TestCacheKey(t *testing.T) {
	t.Parallel()
	a := CacheKey([]string{"x.js"}, []string{"/a/", "/b/"})
	assert.Equal(t, a, CacheKey([]string{"x.js"}, []string{"/a/", "/b/"}))
	assert.NotEqual(t, a, CacheKey([]string{"x.js"}, []string{"/b/", "/a/"}))
	assert.NotEqual(t, a, CacheKey([]string{"x.js", "/a/"}, []string{"/b/"}))
}
