// Package pluginfs lets a plugin ship its default part files inside the binary.
// Overlay copies an fs.FS (typically an embed.FS) under the plugin directory of
// a layered afero filesystem, eagerly at construction, so a Loader configured
// with WithFS finds the embedded defaults while themes stay on disk.
package pluginfs
