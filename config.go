package partloader

import (
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPrefix namespaces hook events and template data variables when Config.Prefix is empty.
const DefaultPrefix = "partloader"

// EnvPrefix is the environment variable prefix read by ConfigFromFile.
const EnvPrefix = "PARTLOADER_"

// Config holds Loader construction arguments. Empty directory fields fall back to the Kind's defaults.
type Config struct {
	// Prefix namespaces hook events ("{prefix}_get_part") and the default data variable ("{prefix}_data").
	Prefix string `koanf:"prefix"`
	// ThemeFileDirectory is the directory inside a theme holding override files.
	ThemeFileDirectory string `koanf:"theme_file_directory"`
	// PluginDirectory is the root directory of the owning plugin.
	PluginDirectory string `koanf:"plugin_directory"`
	// FilesDirectory is the directory inside PluginDirectory holding default files.
	FilesDirectory string `koanf:"files_directory"`
}

// Validate reports whether the config can build a Loader.
func (c Config) Validate() error {
	if strings.TrimSpace(c.PluginDirectory) == "" {
		return fmt.Errorf("%w: plugin_directory is required", ErrInvalidConfig)
	}
	return nil
}

// ConfigFromMap builds a Config from loosely typed arguments.
// "filter_prefix" is accepted as a legacy alias of "prefix"; any other unrecognized
// key is rejected with ErrUnknownOption.
func ConfigFromMap(args map[string]any) (Config, error) {
	args = withPrefixAlias(args)
	k := koanf.New("::")
	if err := k.Load(confmap.Provider(args, "::"), nil); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return unmarshalConfig(k)
}

// ConfigFromFile loads a Config from a TOML or YAML file, then applies
// PARTLOADER_* environment overrides (e.g. PARTLOADER_PLUGIN_DIRECTORY).
func ConfigFromFile(path string) (Config, error) {
	parser, err := parserFor(path)
	if err != nil {
		return Config{}, err
	}
	raw := koanf.New("::")
	if err := raw.Load(file.Provider(path), parser); err != nil {
		return Config{}, fmt.Errorf("%w: load %s: %w", ErrInvalidConfig, path, err)
	}
	k := koanf.New("::")
	if err := k.Load(confmap.Provider(withPrefixAlias(raw.Raw()), "::"), nil); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	err = k.Load(env.Provider(EnvPrefix, "::", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("%w: load env: %w", ErrInvalidConfig, err)
	}
	return unmarshalConfig(k)
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml", ".json":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported config file type %q", ErrInvalidConfig, path)
	}
}

func withPrefixAlias(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	alias, ok := args["filter_prefix"]
	if !ok {
		return args
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		if k != "filter_prefix" {
			out[k] = v
		}
	}
	out["prefix"] = alias
	return out
}

// configKeys lists the koanf keys Config accepts.
var configKeys = func() []string {
	t := reflect.TypeFor[Config]()
	keys := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("koanf"); tag != "" {
			keys = append(keys, tag)
		}
	}
	return keys
}()

// unknownKeys returns the loaded keys Config has no field for, sorted.
func unknownKeys(k *koanf.Koanf) []string {
	var unknown []string
	for _, key := range k.Keys() {
		if !slices.Contains(configKeys, key) {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	return unknown
}

func unmarshalConfig(k *koanf.Koanf) (Config, error) {
	if unknown := unknownKeys(k); len(unknown) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownOption, strings.Join(unknown, ", "))
	}
	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	})
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}
