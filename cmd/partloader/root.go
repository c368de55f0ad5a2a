package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skosovsky/partloader"
	"github.com/skosovsky/partloader/dataexec"
	"github.com/skosovsky/partloader/internal/logging"
	"github.com/skosovsky/partloader/jsexec"
	"github.com/skosovsky/partloader/pluginfs"
)

// defaultConfigFile is looked up in the XDG config directories when --config is not given.
const defaultConfigFile = "partloader/config.toml"

var kinds = map[string]partloader.Kind{
	"file":     partloader.FileKind,
	"template": partloader.TemplateKind,
	"config":   partloader.ConfigKind,
}

type rootOptions struct {
	verbosity     int
	configFile    string
	prefix        string
	pluginDir     string
	filesDir      string
	themeFileDir  string
	templateDir   string
	stylesheetDir string
	kind          string
	ext           string
	defaultsDir   string
	dataFile      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "partloader",
		Short: "Resolve template parts across child theme, parent theme and plugin",
		Long: `partloader finds the highest priority file for a slug and optional name.
A child theme overrides its parent theme, which overrides the plugin defaults.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetupLogger(cmd.ErrOrStderr(), opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.StringVar(&opts.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/"+defaultConfigFile+")")
	flags.StringVar(&opts.prefix, "prefix", "", "hook and data variable prefix")
	flags.StringVar(&opts.pluginDir, "plugin-dir", "", "plugin root directory")
	flags.StringVar(&opts.filesDir, "files-dir", "", "directory inside the plugin holding default files")
	flags.StringVar(&opts.themeFileDir, "theme-dir", "", "directory inside a theme holding override files")
	flags.StringVar(&opts.templateDir, "template-dir", "", "parent theme directory")
	flags.StringVar(&opts.stylesheetDir, "stylesheet-dir", "", "child theme directory")
	flags.StringVar(&opts.kind, "kind", "file", "loader kind: file, template or config")
	flags.StringVar(&opts.ext, "ext", "", "file extension (default .js)")
	flags.StringVar(&opts.defaultsDir, "defaults", "", "directory of plugin default files mounted over --plugin-dir")

	cmd.AddCommand(
		newCandidatesCmd(opts),
		newPathsCmd(opts),
		newLocateCmd(opts),
		newLoadCmd(opts),
	)
	return cmd
}

func newCandidatesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates SLUG [NAME]",
		Short: "Print candidate filenames in lookup order",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := opts.loader()
			if err != nil {
				return err
			}
			slug, name := slugAndName(args)
			for _, f := range loader.Filenames(slug, name) {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func newPathsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print search directories in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := opts.loader()
			if err != nil {
				return err
			}
			for _, p := range loader.SearchPaths() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newLocateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locate SLUG [NAME]",
		Short: "Print the path of the highest priority file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := opts.loader()
			if err != nil {
				return err
			}
			slug, name := slugAndName(args)
			path, err := loader.Get(slug, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load SLUG [NAME]",
		Short: "Execute the highest priority file and print its value as YAML",
		Long: `load executes the located file. Script parts (.js) run in an embedded
JavaScript runtime; TOML, YAML and JSON parts are parsed. With --kind config the
plugin default is used when the override yields no data.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := opts.loader()
			if err != nil {
				return err
			}
			defer func() { _ = loader.Close() }()
			if opts.dataFile != "" {
				data, err := readData(opts.dataFile)
				if err != nil {
					return err
				}
				loader.SetTemplateData(data, "")
			}

			slug, name := slugAndName(args)
			var value any
			if loader.Kind().Name == partloader.ConfigKind.Name {
				value, err = loader.LoadConfig(cmd.Context(), slug, name)
			} else {
				var part *partloader.Part
				if part, err = loader.Load(cmd.Context(), slug, name); err == nil {
					value = part.Value
				}
			}
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(value); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&opts.dataFile, "data", "", "YAML file exposed to scripts as {prefix}_data")
	return cmd
}

func slugAndName(args []string) (string, string) {
	if len(args) == 2 {
		return args[0], args[1]
	}
	return args[0], ""
}

// config merges the config file (explicit or found via XDG) with flags. Flags win.
func (o *rootOptions) config() (partloader.Config, error) {
	var cfg partloader.Config
	path := o.configFile
	if path == "" {
		if found, err := xdg.SearchConfigFile(defaultConfigFile); err == nil {
			path = found
		}
	}
	if path != "" {
		var err error
		if cfg, err = partloader.ConfigFromFile(path); err != nil {
			return partloader.Config{}, err
		}
		log.Debug().Str("path", path).Msg("Loaded config file")
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Prefix, o.prefix)
	override(&cfg.PluginDirectory, o.pluginDir)
	override(&cfg.FilesDirectory, o.filesDir)
	override(&cfg.ThemeFileDirectory, o.themeFileDir)
	return cfg, nil
}

func (o *rootOptions) loader() (*partloader.Loader, error) {
	kind, ok := kinds[o.kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q (want one of %v)", o.kind, slices.Sorted(maps.Keys(kinds)))
	}
	if o.ext != "" {
		kind = kind.WithExtension(o.ext)
	}
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}

	var host *partloader.Host
	if o.templateDir != "" || o.stylesheetDir != "" {
		host = partloader.NewHost(partloader.ThemeDirs{Template: o.templateDir, Stylesheet: o.stylesheetDir})
	}
	fsys, err := o.filesystem(cfg)
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger("loader")
	var executor partloader.Executor = jsexec.New(jsexec.WithFS(fsys), jsexec.WithLogger(logger))
	if dataexec.Supports("part" + kind.Extension) {
		executor = dataexec.New(dataexec.WithFS(fsys))
	}
	return partloader.New(host, kind, cfg,
		partloader.WithFS(fsys),
		partloader.WithExecutor(executor),
		partloader.WithLogger(logger),
	)
}

// filesystem returns the OS filesystem, with the --defaults directory mounted
// over the plugin directory when given.
func (o *rootOptions) filesystem(cfg partloader.Config) (afero.Fs, error) {
	base := afero.NewOsFs()
	if o.defaultsDir == "" {
		return base, nil
	}
	if cfg.PluginDirectory == "" {
		return nil, fmt.Errorf("%w: --defaults needs a plugin directory", partloader.ErrInvalidConfig)
	}
	log.Debug().Str("defaults", o.defaultsDir).Str("mount", cfg.PluginDirectory).Msg("Mounting plugin defaults")
	return pluginfs.Overlay(base, cfg.PluginDirectory, os.DirFS(o.defaultsDir), ".")
}

func readData(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	if data == nil {
		return nil, errors.New("data file is empty")
	}
	return data, nil
}
