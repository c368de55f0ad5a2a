package pluginfs

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Overlay returns a filesystem that reads every file of fsys under root as if it
// lived in mount, and everything else from base. Embedded files shadow base files
// at the same path. Writes go to the in-memory layer and never reach base.
func Overlay(base afero.Fs, mount string, fsys fs.FS, root string) (afero.Fs, error) {
	if base == nil {
		base = afero.NewOsFs()
	}
	if root == "" {
		root = "."
	}
	layer := afero.NewMemMapFs()
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		target := filepath.Join(mount, rel)
		if err := layer.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return afero.WriteFile(layer, target, data, 0o644)
	})
	if err != nil {
		return nil, fmt.Errorf("pluginfs: mount %s: %w", mount, err)
	}
	return afero.NewCopyOnWriteFs(base, layer), nil
}
