package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <executable>",
	Short: "Print the build an executable belongs to",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("eternalpatcher identify: %w", err)
	}
	logger := setupLogger(cfg.LogLevel, cmd.ErrOrStderr())

	cat, err := loadCatalogue(cfg, logger)
	if err != nil {
		return fmt.Errorf("eternalpatcher identify: %w", err)
	}

	build, err := cat.Identify(args[0], cfg.Algorithm())
	if err != nil {
		return fmt.Errorf("eternalpatcher identify: %w", err)
	}

	w := cmd.OutOrStdout()
	if build == nil {
		fmt.Fprintln(w, "unsupported")
		return nil
	}
	fmt.Fprintf(w, "%s (%d patches)\n", build.ID, len(build.Patches))
	return nil
}
