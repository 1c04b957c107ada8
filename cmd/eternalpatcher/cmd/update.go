package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eternalmods/eternalpatcher/internal/config"
	"github.com/eternalmods/eternalpatcher/internal/update"
)

var errNoServer = errors.New("no update server configured")

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download the latest definitions file",
	Long: "Compare the local definitions file with the update server's marker and\n" +
		"download the published definitions when they differ.",
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("eternalpatcher update: %w", err)
	}
	logger := setupLogger(cfg.LogLevel, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	updated, err := syncDefinitions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("eternalpatcher update: %w", err)
	}

	w := cmd.OutOrStdout()
	if updated {
		fmt.Fprintln(w, "Definitions updated.")
	} else {
		fmt.Fprintln(w, "Definitions are up to date.")
	}

	cat, err := loadCatalogue(cfg, logger)
	if err != nil {
		return fmt.Errorf("eternalpatcher update: %w", err)
	}
	fmt.Fprintf(w, "%d patches loaded for %d builds.\n", cat.PatchCount(), cat.Len())
	return nil
}

// syncDefinitions brings the local definitions file up to date with the
// configured server. It reports whether a new file was downloaded.
func syncDefinitions(ctx context.Context, cfg *config.Config, logger *slog.Logger) (bool, error) {
	if cfg.Update.ServerURL == "" {
		return false, errNoServer
	}
	client, err := update.NewClient(cfg.Update, buildVersion, logger)
	if err != nil {
		return false, err
	}
	defer client.Close()
	return client.Sync(ctx, cfg.DefinitionsPath)
}
