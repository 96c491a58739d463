package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/jsongen/pkg/config"
	"github.com/getmockd/jsongen/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	logLevel   string
	logFormat  string
	logFile    string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"

	// cfg and logger are set up before any subcommand runs
	cfg     *config.Config
	logger  = logging.Nop()
	logSink io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsongen",
	Short: "jsongen generates random documents from JSON Schema",
	Long: `jsongen produces random JSON or YAML documents that satisfy a JSON Schema.

Schemas may be JSON or YAML files, or a component of an OpenAPI 3 document.
Arrays honour minItems, maxItems and uniqueItems, and the $fixed extension
pins an array's length to a constant or an expression such as between(2, 4).

Configuration can be provided via flags, JSONGEN_* environment variables, or
a configuration file. By default, jsongen looks for .jsongen.yaml or
jsongen.yaml in the current directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true, // We handle errors in Execute()
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logSink != nil {
			_ = logSink.Close()
			logSink = nil
		}
	},
}

// Execute runs the root command and returns the process exit code.
// This is called by main.main().
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./.jsongen.yaml or ./jsongen.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")
}

// setup loads the layered configuration and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath, os.LookupEnv)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"log-level":  &loaded.Log.Level,
		"log-format": &loaded.Log.Format,
		"log-file":   &loaded.Log.File,
	} {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			*dst = v
			loaded.Set("log."+name[len("log-"):], config.SourceFlag)
		}
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logCfg := logging.Config{
		Level:     logging.ParseLevel(cfg.Log.Level),
		Format:    logging.ParseFormat(cfg.Log.Format),
		Output:    cmd.ErrOrStderr(),
		AddSource: false,
	}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logSink = f
		logCfg.Tee = f
	}
	logger = logging.New(logCfg).With("cmd", cmd.Name())
	slog.SetDefault(logger)

	logger.Debug("configuration loaded", "path", configPath, "seed", cfg.Source("seed"))
	return nil
}
