package generator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/preseed_framework/digester"
	"github.com/byte4ever/preseed_framework/generator"
	"github.com/byte4ever/preseed_framework/templating"
)

const exampleTemplate = "host={{hostname}} port={{port}} debug={{debug}}"

// writeTemp creates a temporary file with content and
// returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(
		tb,
		os.WriteFile(pa, []byte(content), 0o600),
	)

	return pa
}

func readFile(tb testing.TB, pa string) string {
	tb.Helper()

	got, err := os.ReadFile(pa) //nolint:gosec // test file
	require.NoError(tb, err)

	return string(got)
}

// newGenerator lays out config.json and template.cfg in dir.
func newGenerator(
	tb testing.TB,
	dir string,
	config string,
	tpl string,
) *generator.Generator {
	tb.Helper()

	return &generator.Generator{
		ConfigPath:   writeTemp(tb, dir, "config.json", config),
		TemplatePath: writeTemp(tb, dir, "template.cfg", tpl),
		OutputPath:   filepath.Join(dir, "preseed.cfg"),
	}
}

func TestGenerate_example(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := newGenerator(
		t, dir,
		`{"hostname": "node1", "port": 8080}`,
		exampleTemplate,
	)

	res, err := ge.Generate()

	require.NoError(t, err)
	assert.Equal(
		t,
		"host=node1 port=8080 debug={{debug}}",
		readFile(t, ge.OutputPath),
	)
	assert.Equal(t, ge.OutputPath, res.OutputPath)
	assert.Equal(t, []string{"debug"}, res.Unresolved)
	assert.Equal(t, digester.Sum(res.Content), res.Digest)
}

func TestGenerate_overwrites_output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := newGenerator(t, dir, `{"a": "1"}`, "a={{a}}")
	writeTemp(t, dir, "preseed.cfg", "old content that is longer")

	_, err := ge.Generate()

	require.NoError(t, err)
	assert.Equal(t, "a=1", readFile(t, ge.OutputPath))
}

func TestGenerate_missing_config(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := &generator.Generator{
		ConfigPath:   filepath.Join(dir, "config.json"),
		TemplatePath: writeTemp(t, dir, "template.cfg", "x"),
		OutputPath:   writeTemp(t, dir, "preseed.cfg", "previous"),
	}

	_, err := ge.Generate()

	require.ErrorIs(t, err, generator.ErrConfigNotFound)
	assert.Contains(t, err.Error(), ge.ConfigPath)
	assert.Equal(t, "previous", readFile(t, ge.OutputPath))
}

func TestGenerate_missing_template(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := &generator.Generator{
		ConfigPath:   writeTemp(t, dir, "config.json", `{}`),
		TemplatePath: filepath.Join(dir, "template.cfg"),
		OutputPath:   filepath.Join(dir, "preseed.cfg"),
	}

	_, err := ge.Generate()

	require.ErrorIs(t, err, generator.ErrTemplateNotFound)
	assert.Contains(t, err.Error(), ge.TemplatePath)
	assert.NoFileExists(t, ge.OutputPath)
}

func TestGenerate_config_checked_before_template(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := &generator.Generator{
		ConfigPath:   filepath.Join(dir, "config.json"),
		TemplatePath: filepath.Join(dir, "template.cfg"),
		OutputPath:   filepath.Join(dir, "preseed.cfg"),
	}

	_, err := ge.Generate()

	require.ErrorIs(t, err, generator.ErrConfigNotFound)
	assert.NotErrorIs(t, err, generator.ErrTemplateNotFound)
}

func TestGenerate_malformed_config(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := newGenerator(t, dir, `{"hostname": }`, "{{hostname}}")

	_, err := ge.Generate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding config")
	assert.NoFileExists(t, ge.OutputPath)
}

func TestGenerate_unwritable_output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := newGenerator(t, dir, `{}`, "x")
	ge.OutputPath = filepath.Join(dir, "missing", "preseed.cfg")

	_, err := ge.Generate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing output")
}

func TestGenerate_value_precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := newGenerator(
		t, dir,
		`{"suite": "bookworm", "mirror": "deb.debian.org"}`,
		"{{suite}} {{mirror}} {{BUILD_USER}}",
	)
	ge.StampInfoFiles = []string{
		writeTemp(
			t, dir, "status.txt",
			"BUILD_USER alice\nsuite stamped\n",
		),
	}
	ge.Variables = []string{"mirror=mirror.local"}

	res, err := ge.Generate()

	require.NoError(t, err)
	assert.Equal(
		t,
		"bookworm mirror.local alice",
		readFile(t, ge.OutputPath),
	)
	assert.Empty(t, res.Unresolved)
}

func TestGenerate_bad_variable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := newGenerator(t, dir, `{}`, "x")
	ge.Variables = []string{"NOEQUALS"}

	_, err := ge.Generate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAME=VALUE")
	assert.NoFileExists(t, ge.OutputPath)
}

func TestGenerate_yaml_config_custom_tags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := &generator.Generator{
		ConfigPath: writeTemp(
			t, dir, "config.yaml", "hostname: node2\n",
		),
		TemplatePath: writeTemp(
			t, dir, "template.cfg", "host=<%hostname%>",
		),
		OutputPath: filepath.Join(dir, "preseed.cfg"),
		Engine: templating.Engine{
			StartTag: "<%",
			EndTag:   "%>",
		},
	}

	_, err := ge.Generate()

	require.NoError(t, err)
	assert.Equal(t, "host=node2", readFile(t, ge.OutputPath))
}

func TestCheck_tracks_output_state(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := newGenerator(t, dir, `{"a": 1}`, "a={{a}}")

	ok, err := ge.Check()
	require.NoError(t, err)
	assert.False(t, ok, "missing output is stale")

	_, err = ge.Generate()
	require.NoError(t, err)

	ok, err = ge.Check()
	require.NoError(t, err)
	assert.True(t, ok)

	writeTemp(t, dir, "config.json", `{"a": 2}`)

	ok, err = ge.Check()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "a=1", readFile(t, ge.OutputPath))
}

func TestCheck_missing_template(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ge := &generator.Generator{
		ConfigPath:   writeTemp(t, dir, "config.json", `{}`),
		TemplatePath: filepath.Join(dir, "template.cfg"),
		OutputPath:   filepath.Join(dir, "preseed.cfg"),
	}

	_, err := ge.Check()

	require.ErrorIs(t, err, generator.ErrTemplateNotFound)
}

func TestUnresolved_sorted_unique(t *testing.T) {
	t.Parallel()

	got := generator.Unresolved(
		&templating.Engine{},
		"{{b}} {{a}} {{known}} {{b}}",
		map[string]string{"known": "x"},
	)

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestUnresolved_none(t *testing.T) {
	t.Parallel()

	got := generator.Unresolved(
		&templating.Engine{}, "plain text", nil,
	)

	assert.Empty(t, got)
}
