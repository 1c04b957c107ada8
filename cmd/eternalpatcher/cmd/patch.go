package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eternalmods/eternalpatcher/internal/fsutil"
	"github.com/eternalmods/eternalpatcher/internal/patch"
	"github.com/eternalmods/eternalpatcher/internal/report"
)

var (
	patchUpdate     bool
	patchBackup     bool
	patchBackupFile string
)

var errPatchesFailed = errors.New("not every patch was applied")

var patchCmd = &cobra.Command{
	Use:   "patch <executable>",
	Short: "Apply the patches for an executable's build",
	Long: "Identify the executable, then apply every patch the definitions file\n" +
		"assigns to its build. Exits non-zero unless every patch succeeded.",
	Args: cobra.ExactArgs(1),
	RunE: runPatch,
}

func init() {
	patchCmd.Flags().BoolVar(&patchUpdate, "update", false, "update the definitions file before patching")
	patchCmd.Flags().BoolVar(&patchBackup, "backup", false, "copy the executable before patching")
	patchCmd.Flags().StringVar(&patchBackupFile, "backup-file", "", "backup path (implies --backup)")
	rootCmd.AddCommand(patchCmd)
}

func runPatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("eternalpatcher patch: %w", err)
	}
	logger := setupLogger(cfg.LogLevel, cmd.ErrOrStderr())

	if patchUpdate {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		updated, err := syncDefinitions(ctx, cfg, logger)
		stop()
		if err != nil {
			logger.Warn("definitions update failed, using local file", "error", err)
		} else if updated {
			logger.Info("definitions updated", "path", cfg.DefinitionsPath)
		}
	}

	cat, err := loadCatalogue(cfg, logger)
	if err != nil {
		return fmt.Errorf("eternalpatcher patch: %w", err)
	}
	if !cat.AnyPatchesLoaded() {
		return fmt.Errorf("eternalpatcher patch: 0 patches loaded from %s", cfg.DefinitionsPath)
	}

	build, err := cat.Identify(path, cfg.Algorithm())
	if err != nil {
		return fmt.Errorf("eternalpatcher patch: %w", err)
	}
	if build == nil {
		return fmt.Errorf("eternalpatcher patch: %s: %w", path, errUnsupportedBuild)
	}
	logger.Info("build identified", "build", build.ID, "patches", len(build.Patches))

	if patchBackup || patchBackupFile != "" || cfg.Backup.Enabled {
		dst := patchBackupFile
		if dst == "" {
			dst = path + cfg.Backup.Suffix
		}
		if err := fsutil.CopyFile(path, dst); err != nil {
			return fmt.Errorf("eternalpatcher patch: backup: %w", err)
		}
		logger.Info("backup written", "path", dst)
	}

	outcomes, err := patch.NewApplier(cfg.Patch, logger).ApplyAll(path, build.Patches)
	if err != nil {
		return fmt.Errorf("eternalpatcher patch: %w", err)
	}

	if !report.NewPrinter(cmd.OutOrStdout(), !noColor).Outcomes(outcomes) {
		return fmt.Errorf("eternalpatcher patch: %w", errPatchesFailed)
	}
	return nil
}
