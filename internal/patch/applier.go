package patch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrLocked is returned when another process holds the lock on the target file.
var ErrLocked = errors.New("patch: target file is locked by another process")

// Outcome is the result of applying one patch.
type Outcome struct {
	Patch   *Patch
	Success bool
	// Err is set when the patch failed on an I/O error or was rejected
	// before the file was opened.
	Err error
}

// Summary counts successful and failed outcomes.
func Summary(outcomes []Outcome) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// Applier applies ordered patch lists to a file.
type Applier struct {
	cfg    Config
	logger *slog.Logger
}

// NewApplier creates an Applier. Invalid configuration values fall back to
// their defaults.
func NewApplier(cfg Config, logger *slog.Logger) *Applier {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		logger.Warn("invalid patch config, using defaults", "error", err)
		cfg = Config{}
		cfg.ApplyDefaults()
	}
	return &Applier{
		cfg:    cfg,
		logger: logger.With("component", "patch"),
	}
}

// ApplyAll applies patches to the file at path, in order, each exactly once.
// The returned outcomes are in the same order as patches. A failing patch
// never stops the batch.
//
// The file is opened once for read-write under an exclusive lock. Failure to
// open or lock it is returned as an error and no outcomes are produced.
// Patches that fail validation are recorded as failures without touching the
// file; when every patch is invalid the file is not opened at all.
func (a *Applier) ApplyAll(path string, patches []*Patch) ([]Outcome, error) {
	outcomes := make([]Outcome, len(patches))
	pending := make([]int, 0, len(patches))

	for i, p := range patches {
		outcomes[i].Patch = p
		if err := p.Validate(); err != nil {
			outcomes[i].Err = err
			a.logger.Debug("patch rejected", "description", description(p), "error", err)
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return outcomes, nil
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("patch: open %s: %w", path, err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return nil, fmt.Errorf("patch: lock %s: %w", path, err)
	}
	defer unlockFile(f)

	for _, i := range pending {
		p := patches[i]
		ok, err := p.Apply(f, a.cfg.BlockSize)
		outcomes[i].Success = ok
		outcomes[i].Err = err

		a.logger.Debug("patch applied",
			"description", p.Description,
			"kind", p.Kind.String(),
			"success", ok,
		)
		if err != nil {
			a.logger.Warn("patch failed on I/O error", "description", p.Description, "error", err)
		}
	}

	if err := f.Sync(); err != nil {
		return outcomes, fmt.Errorf("patch: sync %s: %w", path, err)
	}
	return outcomes, nil
}

func description(p *Patch) string {
	if p == nil {
		return ""
	}
	return p.Description
}
