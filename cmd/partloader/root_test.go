package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/partloader"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Commands share the global logger, so these tests do not run in parallel.

type fixture struct {
	plugin string
	parent string
	child  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		plugin: filepath.Join(root, "plugins", "shop"),
		parent: filepath.Join(root, "themes", "parent"),
		child:  filepath.Join(root, "themes", "child"),
	}
	writeFile(t, filepath.Join(f.plugin, "templates", "order.js"), "'plugin order'")
	writeFile(t, filepath.Join(f.child, "templates", "order-pending.js"), "'child pending'")
	writeFile(t, filepath.Join(f.plugin, "config", "order.js"), "({currency: 'EUR', title: shop_data.title})")
	writeFile(t, filepath.Join(f.plugin, "config", "order.toml"), "currency = \"USD\"\n")
	return f
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCandidatesCmd(t *testing.T) {
	out, err := run(t, "candidates", "order", "pending", "--plugin-dir", "/p", "--ext", "php")
	require.NoError(t, err)
	assert.Equal(t, "order-pending.php\npending.php\norder.php\n", out)
}

func TestPathsCmd(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "paths", "--plugin-dir", f.plugin, "--template-dir", f.parent, "--stylesheet-dir", f.child)
	require.NoError(t, err)
	sep := string(filepath.Separator)
	assert.Equal(t, []string{
		filepath.Join(f.child, "templates") + sep,
		filepath.Join(f.parent, "templates") + sep,
		filepath.Join(f.plugin, "templates") + sep,
	}, strings.Fields(out))
}

func TestLocateCmd(t *testing.T) {
	f := newFixture(t)
	base := []string{"locate", "--plugin-dir", f.plugin, "--template-dir", f.parent, "--stylesheet-dir", f.child}

	out, err := run(t, append(base, "order", "pending")...)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.child, "templates", "order-pending.js"), strings.TrimSpace(out))

	out, err = run(t, append(base, "order")...)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.plugin, "templates", "order.js"), strings.TrimSpace(out))

	_, err = run(t, append(base, "missing")...)
	require.ErrorIs(t, err, partloader.ErrNotFound)
}

func TestLoadCmd_Template(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "load", "order", "--kind", "template", "--plugin-dir", f.plugin)
	require.NoError(t, err)
	assert.Equal(t, "plugin order\n", out)
}

func TestLoadCmd_ConfigWithData(t *testing.T) {
	f := newFixture(t)
	data := filepath.Join(t.TempDir(), "data.yaml")
	writeFile(t, data, "title: Orders\n")

	out, err := run(t, "load", "order", "--kind", "config", "--prefix", "shop", "--plugin-dir", f.plugin, "--data", data)
	require.NoError(t, err)
	assert.Equal(t, "currency: EUR\ntitle: Orders\n", out)
}

func TestLoadCmd_TOMLConfig(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "load", "order", "--kind", "config", "--ext", "toml", "--plugin-dir", f.plugin)
	require.NoError(t, err)
	assert.Equal(t, "currency: USD\n", out)
}

func TestLoadCmd_Defaults(t *testing.T) {
	f := newFixture(t)
	defaults := t.TempDir()
	writeFile(t, filepath.Join(defaults, "templates", "invoice.js"), "'embedded invoice'")
	writeFile(t, filepath.Join(defaults, "templates", "order.js"), "'shadowed order'")
	args := []string{"--plugin-dir", f.plugin, "--defaults", defaults}

	out, err := run(t, append([]string{"load", "invoice"}, args...)...)
	require.NoError(t, err)
	assert.Equal(t, "embedded invoice\n", out)

	out, err = run(t, append([]string{"locate", "invoice"}, args...)...)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.plugin, "templates", "invoice.js"), strings.TrimSpace(out))

	out, err = run(t, append([]string{"load", "order"}, args...)...)
	require.NoError(t, err)
	assert.Equal(t, "shadowed order\n", out)

	_, err = run(t, "paths", "--defaults", defaults)
	require.ErrorIs(t, err, partloader.ErrInvalidConfig)
}

func TestConfigFile(t *testing.T) {
	f := newFixture(t)
	cfg := filepath.Join(t.TempDir(), "partloader.toml")
	writeFile(t, cfg, "plugin_directory = \""+filepath.ToSlash(f.plugin)+"\"\n")

	out, err := run(t, "locate", "order", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.plugin, "templates", "order.js"), filepath.Clean(strings.TrimSpace(out)))
}

func TestErrors(t *testing.T) {
	_, err := run(t, "paths", "--kind", "bogus", "--plugin-dir", "/p")
	require.ErrorContains(t, err, `unknown kind "bogus" (want one of [config file template])`)

	_, err = run(t, "candidates", "order", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, partloader.ErrInvalidConfig)

	_, err = run(t, "locate")
	require.Error(t, err)
}
