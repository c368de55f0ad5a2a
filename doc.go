// Package partloader resolves template parts, files and config for plugins
// that let a child theme and a parent theme override their defaults.
//
// A Loader turns a slug and an optional name into candidate filenames
// ("{slug}-{name}.js", "{name}.js", "{slug}.js") and returns the first one that
// exists, trying each filename in every search directory before the next:
// child theme first, then the parent theme, then the plugin. Both lists can be
// rewritten through hooks registered on the Host. Results are cached per Loader.
//
// Located files can be executed through an Executor; jsexec runs JavaScript
// parts and dataexec parses TOML, YAML and JSON. LoadConfig falls back to the
// plugin's own file when a theme override yields no data.
package partloader
