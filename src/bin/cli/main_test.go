package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge-gg/introspect/selector"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const pointDef = `{"type": "struct", "name": "Point", "members": [
	{"name": "x", "type_def": {"type": "u32"}},
	{"name": "y", "type_def": {"type": "bool"}}
]}`

func TestIsGoGenerate(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected bool
	}{
		{
			name:     "No go generate vars",
			envVars:  map[string]string{},
			expected: false,
		},
		{
			name:     "With GOPACKAGE",
			envVars:  map[string]string{"GOPACKAGE": "main"},
			expected: true,
		},
		{
			name:     "With GOFILE",
			envVars:  map[string]string{"GOFILE": "main.go"},
			expected: true,
		},
		{
			name:     "With GOLINE",
			envVars:  map[string]string{"GOLINE": "42"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"GOPACKAGE", "GOFILE", "GOLINE"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.expected, isGoGenerate())
		})
	}
}

func TestSelectorCommand(t *testing.T) {
	out, _, err := execute(t, "selector", "abc", "--query", ".[0].selector")
	require.NoError(t, err)
	assert.Equal(t, `"`+selector.MustASCII("abc").String()+`"`, strings.TrimSpace(out))

	out, _, err = execute(t, "selector", "--keccak", "transfer", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: transfer")
	assert.Contains(t, out, selector.Keccak("transfer").String())

	_, _, err = execute(t, "selector", strings.Repeat("a", 32))
	assert.Error(t, err)
}

func TestTypeDefCommand(t *testing.T) {
	path := writeFile(t, "point.json", pointDef)

	out, _, err := execute(t, "typedef", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Point")
	assert.Contains(t, out, "x")

	out, _, err = execute(t, "typedef", "--as", "cairo", path)
	require.NoError(t, err)
	assert.Contains(t, out, "introspect::TypeDef::Struct(")
	assert.Contains(t, out, "introspect::TypeDef::U32")

	out, _, err = execute(t, "typedef", "--as", "json", "--query", ".members | length", path)
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))

	_, _, err = execute(t, "typedef", "--as", "rust", path)
	assert.Error(t, err)
}

func TestTranscodeCommand(t *testing.T) {
	path := writeFile(t, "point.json", pointDef)

	out, _, err := execute(t, "transcode", "--type", path, "7", "0x1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 7, "y": true}`, out)

	out, _, err = execute(t, "transcode", "--type", path, "--to", "iserde", "7,1")
	require.NoError(t, err)
	assert.JSONEq(t, `["0x7", "0x1"]`, out)

	out, _, err = execute(t, "transcode", "--type", path, "--to", "cbor", "7", "1")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	_, _, err = execute(t, "transcode", "--type", path, "7", "2")
	assert.Error(t, err)

	_, _, err = execute(t, "transcode", "--type", path, "--to", "xml", "7", "1")
	assert.Error(t, err)

	_, _, err = execute(t, "transcode", "7", "1")
	assert.Error(t, err)
}

func TestEventsCommands(t *testing.T) {
	out, _, err := execute(t, "events", "decode",
		"--keys", selector.MustASCII("RenameTable").String(),
		"--data", "0x1,0,0x6869,2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"event": "RenameTable", "data": {"id": "0x1", "name": "hi"}}`, out)

	_, _, err = execute(t, "events", "decode", "--keys", "0x2a")
	assert.Error(t, err)

	out, _, err = execute(t, "events", "list", "--query", `map(select(.name == "DropTable")) | .[0].selector`)
	require.NoError(t, err)
	assert.Equal(t, `"`+selector.MustASCII("DropTable").String()+`"`, strings.TrimSpace(out))

	_, _, err = execute(t, "events", "fetch", "--address", "0x1")
	assert.ErrorContains(t, err, "no RPC endpoint")
}

func TestExpandCommand(t *testing.T) {
	src := writeFile(t, "model.cairo", `#[derive(Drop, Introspect)]
struct Point {
    x: u32,
}
`)
	out, _, err := execute(t, "expand", src)
	require.NoError(t, err)
	assert.Contains(t, out, "#[derive(Drop)]\nstruct Point {")
	assert.Contains(t, out, "impl PointIntrospect of introspect::Introspect<Point>")

	dst := filepath.Join(t.TempDir(), "out.cairo")
	_, _, err = execute(t, "expand", "-o", dst, src)
	require.NoError(t, err)
	written, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, out, string(written))

	bad := writeFile(t, "bad.cairo", `#[table]
struct Bad {
    a: u8,
    #[key]
    b: u8,
}
`)
	out, stderr, err := execute(t, "expand", bad)
	assert.Error(t, err)
	assert.Contains(t, stderr, "keys_not_first")
	assert.Contains(t, out, "struct Bad")
}

func TestConfigFile(t *testing.T) {
	cfg := writeFile(t, "introspect.toml", "[derive]\nintrospect_path = \"meta\"\n")
	src := writeFile(t, "model.cairo", "#[derive(Introspect)]\nstruct Point {\n    x: u32,\n}\n")

	out, _, err := execute(t, "--config", cfg, "expand", src)
	require.NoError(t, err)
	assert.Contains(t, out, "impl PointIntrospect of meta::Introspect<Point>")

	_, _, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "expand", src)
	assert.Error(t, err)
}
