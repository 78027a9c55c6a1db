package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/mdblocks/internal/app"
	"github.com/kk-code-lab/mdblocks/internal/config"
	"github.com/kk-code-lab/mdblocks/internal/logging"
	"github.com/spf13/cobra"
)

// Version information (set at build time)
var version = "dev"

type rootFlags struct {
	configPath string
	logFile    string
	logLevel   string
	text       string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return buildRootCommand(&rootFlags{})
}

func buildRootCommand(flags *rootFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mdblocks",
		Short: "Block-based markdown editor for the terminal",
		Long: `mdblocks edits one markdown document in two synchronized views:
the plain markdown text on the left and its rendered blocks on the right.
Edits in either view are written back to the same document.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runEditor(cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&flags.logFile, "log-file", "", "append logs to this file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	pf.StringVar(&flags.text, "text", "", "initial markdown document")

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newBlocksCommand(flags))
	return rootCmd
}

// loadConfig reads the config file and environment, then applies flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("log-file") {
		cfg.Logging.File = flags.logFile
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if changed("text") {
		cfg.Editor.InitialDocument = flags.text
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runEditor(cfg *config.Config) error {
	logger, closeLog, err := logging.Open(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	app, err := apppkg.NewApplication(apppkg.Options{
		InitialText:        cfg.Editor.InitialDocument,
		TabWidth:           cfg.Editor.TabWidth,
		MirrorWidthPercent: cfg.Editor.MirrorWidthPercent,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
	return nil
}
