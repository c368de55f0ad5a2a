package partloader

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
)

func BenchmarkResolverLocate_CacheHit(b *testing.B) {
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, "/plugins/foo/templates/order.js", nil, 0o644)
	r := NewResolver(fsys)
	files := CandidateNames("order", "pending", ".js")
	paths := []string{"/themes/child/templates/", "/themes/parent/templates/", "/plugins/foo/templates/"}
	if _, err := r.Locate(files, paths); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Locate(files, paths)
	}
}

func BenchmarkResolverLocate_Miss(b *testing.B) {
	fsys := afero.NewMemMapFs()
	r := NewResolver(fsys)
	paths := []string{"/themes/child/templates/", "/themes/parent/templates/", "/plugins/foo/templates/"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Locate(CandidateNames(fmt.Sprintf("part%d", i), "x", ".js"), paths)
	}
}

func BenchmarkCacheKey(b *testing.B) {
	files := CandidateNames("order", "pending", ".js")
	paths := []string{"/themes/child/templates/", "/themes/parent/templates/", "/plugins/foo/templates/"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CacheKey(files, paths)
	}
}

func BenchmarkLoaderGet(b *testing.B) {
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, "/plugins/foo/templates/order.js", nil, 0o644)
	l, err := NewTemplateLoader(NewHost(ThemeDirs{Template: "/themes/parent"}), Config{PluginDirectory: "/plugins/foo"}, WithFS(fsys))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = l.Get("order", "pending")
	}
}

func BenchmarkSlugifiedStoreGet(b *testing.B) {
	s := NewStore()
	_ = s.AddTemplate("Order Summary", map[string]any{"Total": 10})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Get("Order Summary", "Total")
	}
}
