// Package main is the entry point for the character sheet tool
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/agency-sheet/internal/config"
)

var (
	configFile string
	envFile    string
	projectDir string
	outputDir  string
	settingDir string
	logLevel   string
	logFormat  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Triangle Agency character sheet tool",
	Long: `sheet edits Triangle Agency character drafts against the anomaly, competency
and role catalogs, saves them as JSON, and renders printable HTML and PDF sheets.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML config file (default ./"+config.DefaultConfigFile+" when present)")
	flags.StringVar(&envFile, "env-file", "", "dotenv file (default ./"+config.DefaultEnvFile+" when present)")
	flags.StringVar(&projectDir, "root", "", "project root (default working directory)")
	flags.StringVar(&outputDir, "output", "", "output directory (default <root>/"+config.OutputDirName+")")
	flags.StringVar(&settingDir, "settings", "", "catalog directory (default <root>/"+config.SettingDirName+")")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "log format: text, json")

	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(pdfCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(config.LoadOptions{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return err
	}

	if projectDir != "" {
		loaded.ProjectRoot = projectDir
	}
	if outputDir != "" {
		loaded.OutputDir = outputDir
	}
	if settingDir != "" {
		loaded.SettingDir = settingDir
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if logFormat != "" {
		loaded.Log.Format = logFormat
	}

	if err := loaded.Resolve(); err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	setupLogger(cmd, loaded)
	cfg = loaded
	return nil
}

func setupLogger(cmd *cobra.Command, c *config.Config) {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	var handler slog.Handler
	if strings.EqualFold(c.Log.Format, "json") {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}
	slog.SetDefault(slog.New(handler))
}
