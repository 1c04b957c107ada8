// Package cmd implements the eternalpatcher CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eternalmods/eternalpatcher/internal/catalog"
	"github.com/eternalmods/eternalpatcher/internal/config"
)

var (
	cfgFile         string
	logLevel        string
	definitionsPath string
	serverURL       string
	noColor         bool
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var errUnsupportedBuild = errors.New("unsupported build")

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("eternalpatcher version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "eternalpatcher",
	Short: "eternalpatcher applies binary patches to game executables",
	Long: "eternalpatcher identifies a game executable by file name and content hash,\n" +
		"looks up the patches the definitions file lists for that build, and writes\n" +
		"them into the executable in place.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "eternalpatcher.yaml", "config file path (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&definitionsPath, "definitions", "", "definitions file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "update server URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("eternalpatcher version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig parses the config file and applies CLI flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if definitionsPath != "" {
		cfg.DefinitionsPath = definitionsPath
	}
	if serverURL != "" {
		cfg.Update.ServerURL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCatalogue reads the definitions file into a fresh store.
func loadCatalogue(cfg *config.Config, logger *slog.Logger) (*catalog.Catalogue, error) {
	store := catalog.NewStore(logger)
	if _, err := store.Load(cfg.DefinitionsPath); err != nil {
		return nil, err
	}
	return store.Current(), nil
}

func setupLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
