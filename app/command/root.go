package command

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/go-request-template/app/config"
	"github.com/jo-hoe/go-request-template/app/logging"
)

var defaultConfigFileName = path.Join("config", "config.yaml")

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd builds the reqtmpl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "reqtmpl",
		Short: "Render and send templated HTTP requests",
		Long: `reqtmpl resolves request templates against data records and sends them.

Templates are declared in a YAML config file. Every string in a template may
contain {{name}} placeholders that are filled from the record:
  - a value that is exactly "{{name}}" takes the record value with its type
  - placeholders inside longer strings are replaced by the value's text
  - placeholders without a record entry are left as they are`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigFileName, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Override the configured log format (text, json)")

	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newSendCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load reads the config file and builds the logger it asks for.
// Flag values take precedence over the file.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	bootstrap := o.logger(cmd, "", "")
	cfg, err := config.LoadFile(o.configPath, config.WithLogger(bootstrap))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config '%s': %w", o.configPath, err)
	}
	return cfg, o.logger(cmd, cfg.LogLevel, cfg.LogFormat), nil
}

func (o *rootOptions) logger(cmd *cobra.Command, level, format string) *slog.Logger {
	if strings.TrimSpace(o.logLevel) != "" {
		level = o.logLevel
	}
	if strings.TrimSpace(o.logFormat) != "" {
		format = o.logFormat
	}
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Format: logging.ParseFormat(format),
		Output: cmd.ErrOrStderr(),
	})
}
