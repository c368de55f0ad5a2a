package partloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHooks_FilterFilenames_InOrder(t *testing.T) {
	t.Parallel()
	h := NewHooks()
	h.AddFilenameFilter("p_get_part", func(files []string, slug, _ string) []string {
		return append([]string{slug + "-special.js"}, files...)
	})
	h.AddFilenameFilter("p_get_part", func(files []string, _, _ string) []string {
		return files[:2]
	})

	got := h.FilterFilenames("p_get_part", []string{"order.js", "x.js"}, "order", "")
	assert.Equal(t, []string{"order-special.js", "order.js"}, got)
}

func TestHooks_FilterFilenames_NoHandlers(t *testing.T) {
	t.Parallel()
	h := NewHooks()
	h.AddFilenameFilter("p_get_part", nil)
	files := []string{"order.js"}
	assert.Equal(t, files, h.FilterFilenames("p_get_part", files, "order", ""))
	assert.Equal(t, files, h.FilterFilenames("other_get_part", files, "order", ""))
}

func TestHooks_FilterPaths(t *testing.T) {
	t.Parallel()
	h := NewHooks()
	h.AddPathFilter("p_file_paths", func(paths SearchPaths) SearchPaths {
		paths[50] = "/extra"
		return paths
	})
	h.AddPathFilter("p_file_paths", func(paths SearchPaths) SearchPaths {
		delete(paths, PriorityParentTheme)
		return paths
	})

	got := h.FilterPaths("p_file_paths", SearchPaths{PriorityParentTheme: "/parent", PriorityPlugin: "/plugin"})
	assert.Equal(t, SearchPaths{50: "/extra", PriorityPlugin: "/plugin"}, got)
}

func TestHooks_Do(t *testing.T) {
	t.Parallel()
	h := NewHooks()
	var calls []string
	h.AddAction("get_part_order", func(slug, name string) { calls = append(calls, "first:"+slug+"/"+name) })
	h.AddAction("get_part_order", func(slug, name string) { calls = append(calls, "second:"+slug+"/"+name) })

	h.Do("get_part_order", "order", "pending")
	h.Do("get_part_other", "other", "")
	assert.Equal(t, []string{"first:order/pending", "second:order/pending"}, calls)
}
