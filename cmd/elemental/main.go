package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	prefix     string
	logLevel   string
	noAdopted  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "elemental",
		Short: "Render and serve elemental component pages",
		Long: `elemental renders documents made of custom elements on the server.

The demo page holds a stateful navbar, a magician, a stateless paragraph
and heroes that share secrets through custom events. Shadow roots are
written as declarative templates so the page hydrates without script.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&opts.prefix, "prefix", "", "tag name prefix (default from config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (default from config)")
	flags.BoolVar(&opts.noAdopted, "no-adopted-stylesheets", false, "inline component styles into templates")

	rootCmd.AddCommand(
		renderCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// config loads the config file and applies flag overrides.
func (o *rootOptions) config(cmd *cobra.Command) (Config, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("prefix") {
		cfg.Prefix = o.prefix
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("no-adopted-stylesheets") {
		cfg.AdoptedStylesheets = !o.noAdopted
	}
	return cfg, cfg.validate()
}

func (o *rootOptions) setup(cmd *cobra.Command) (Config, *zap.Logger, error) {
	cfg, err := o.config(cmd)
	if err != nil {
		return cfg, nil, err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
