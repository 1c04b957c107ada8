package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eternalmods/eternalpatcher/internal/report"
)

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "List the builds in the definitions file",
	Args:  cobra.NoArgs,
	RunE:  runBuilds,
}

func init() {
	rootCmd.AddCommand(buildsCmd)
}

func runBuilds(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("eternalpatcher builds: %w", err)
	}
	logger := setupLogger(cfg.LogLevel, cmd.ErrOrStderr())

	cat, err := loadCatalogue(cfg, logger)
	if err != nil {
		return fmt.Errorf("eternalpatcher builds: %w", err)
	}

	w := cmd.OutOrStdout()
	if cat.Len() == 0 {
		fmt.Fprintf(w, "No builds loaded from %s.\n", cfg.DefinitionsPath)
		return nil
	}
	p := report.NewPrinter(w, !noColor)
	for _, b := range cat.Builds {
		p.Build(b)
	}
	return nil
}
