// Package main provides the introspect CLI: macro expansion of Cairo
// sources, selector computation and decoding of serialized data against
// TypeDefs and schema events.
//
// It can be driven from go generate:
//
//	//go:generate go run -mod=mod github.com/cartridge-gg/introspect/src/bin/cli expand -o contract.expanded.cairo contract.cairo
package main

import (
	"log"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cartridge-gg/introspect/derive"
	"github.com/cartridge-gg/introspect/events"
	"github.com/cartridge-gg/introspect/plugin"
	"github.com/cartridge-gg/introspect/table"
)

const (
	configName    = "introspect"
	defaultFormat = "json"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// In go generate context, prefix error for clarity
		if isGoGenerate() {
			log.Fatalf("go:generate introspect: %v", err)
		} else {
			log.Fatal(err)
		}
	}
}

// app is the state shared by every subcommand once the root has run.
type app struct {
	v      *viper.Viper
	cfg    derive.Config
	logger *zap.Logger

	configFile string
	logJSON    bool
	verbose    bool
	query      string
}

func newRootCmd() *cobra.Command {
	a := &app{v: derive.NewViper()}
	a.v.SetDefault("cli.format", defaultFormat)
	a.v.SetDefault("cli.rpc_url", "")

	root := &cobra.Command{
		Use:   "introspect",
		Short: "Cairo introspection toolkit",
		Long: `Expand introspection macros in Cairo sources and decode data laid out
by TypeDefs.

Examples:
  introspect expand src/models.cairo
  introspect selector --keccak transfer
  introspect transcode --type point.json 0x1 0x2
  introspect events fetch --rpc $RPC --address 0x123`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default: ./introspect.toml if present)")
	flags.BoolVar(&a.logJSON, "log-json", false, "Log JSON lines instead of console output")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log at debug level")
	flags.StringVarP(&a.query, "query", "q", "", "jq filter applied to JSON output")
	flags.String("format", defaultFormat, "Output format for structured results: json or yaml")
	_ = a.v.BindPFlag("cli.format", flags.Lookup("format"))

	root.AddCommand(
		a.expandCmd(),
		a.selectorCmd(),
		a.typeDefCmd(),
		a.transcodeCmd(),
		a.eventsCmd(),
	)
	return root
}

// setup reads the config and installs the logger in every package.
func (a *app) setup() error {
	if err := a.readConfig(); err != nil {
		return err
	}
	cfg, err := derive.LoadConfig(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(a.logJSON, a.verbose)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	a.logger = logger
	derive.SetLogger(logger)
	table.SetLogger(logger)
	plugin.SetLogger(logger)
	events.SetLogger(logger)
	return nil
}

func (a *app) readConfig() error {
	a.v.SetConfigType("toml")
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", a.configFile)
		}
		return nil
	}
	a.v.SetConfigName(configName)
	a.v.AddConfigPath(".")
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config")
		}
	}
	return nil
}

func newLogger(json, verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

func (a *app) format() string {
	return strings.ToLower(a.v.GetString("cli.format"))
}

// Helper function to detect if we're running in go generate context
func isGoGenerate() bool {
	// Check for common go generate environment variables
	return os.Getenv("GOPACKAGE") != "" || os.Getenv("GOFILE") != "" || os.Getenv("GOLINE") != ""
}
