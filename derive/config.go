package derive

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config controls the paths generated code refers to.
type Config struct {
	// IntrospectPath is the module path of the runtime library.
	IntrospectPath string `mapstructure:"introspect_path"`
	// TablePath is the module path of the table traits.
	TablePath string `mapstructure:"table_path"`
	// Fuzz adds a Fuzzable impl to every #[introspect] item.
	Fuzz bool `mapstructure:"fuzz"`
}

const (
	DefaultIntrospectPath = "introspect"
	DefaultTablePath      = "introspect::table"
)

func DefaultConfig() Config {
	return Config{
		IntrospectPath: DefaultIntrospectPath,
		TablePath:      DefaultTablePath,
	}
}

// SetDefaults registers the derive keys on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("derive.introspect_path", DefaultIntrospectPath)
	v.SetDefault("derive.table_path", DefaultTablePath)
	v.SetDefault("derive.fuzz", false)
}

// NewViper returns a viper instance reading INTROSPECT_* variables with
// the derive defaults set.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("INTROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadConfig reads the derive section of v.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	if err := v.UnmarshalKey("derive", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal derive config")
	}
	// AutomaticEnv values are not seen by UnmarshalKey
	cfg.IntrospectPath = v.GetString("derive.introspect_path")
	cfg.TablePath = v.GetString("derive.table_path")
	cfg.Fuzz = v.GetBool("derive.fuzz")
	if cfg.IntrospectPath == "" {
		return Config{}, errors.New("derive.introspect_path must not be empty")
	}
	if cfg.TablePath == "" {
		cfg.TablePath = cfg.IntrospectPath + "::table"
	}
	return cfg, nil
}

// LoadConfigFile reads a TOML config file, then the environment.
func LoadConfigFile(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return LoadConfig(v)
}

// Path qualifies name with the runtime library path.
func (c Config) Path(name string) string {
	return c.IntrospectPath + "::" + name
}

// TableItem qualifies name with the table module path.
func (c Config) TableItem(name string) string {
	return c.TablePath + "::" + name
}
