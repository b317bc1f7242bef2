package derive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(NewViper())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("INTROSPECT_DERIVE_INTROSPECT_PATH", "my_lib")
	t.Setenv("INTROSPECT_DERIVE_FUZZ", "true")
	cfg, err := LoadConfig(NewViper())
	require.NoError(t, err)
	assert.Equal(t, "my_lib", cfg.IntrospectPath)
	assert.Equal(t, DefaultTablePath, cfg.TablePath)
	assert.True(t, cfg.Fuzz)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "introspect.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[derive]
introspect_path = "meta"
table_path = ""
`), 0o600))
	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "meta", cfg.IntrospectPath)
	assert.Equal(t, "meta::table", cfg.TablePath)
	assert.Equal(t, "meta::Introspect", cfg.Path("Introspect"))
	assert.Equal(t, "meta::table::TableSchema", cfg.TableItem("TableSchema"))

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsEmptyPath(t *testing.T) {
	v := NewViper()
	v.Set("derive.introspect_path", "")
	_, err := LoadConfig(v)
	assert.Error(t, err)
}
