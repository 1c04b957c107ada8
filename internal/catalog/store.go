package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// Store publishes the current Catalogue. Readers get an immutable snapshot;
// a reload parses the new catalogue completely before swapping it in.
type Store struct {
	mu      sync.Mutex // serializes loads
	current atomic.Pointer[Catalogue]
	logger  *slog.Logger
}

// NewStore creates a Store holding an empty catalogue.
func NewStore(logger *slog.Logger) *Store {
	s := &Store{logger: logger.With("component", "catalog")}
	s.current.Store(&Catalogue{})
	return s
}

// Current returns the published catalogue. It is never nil.
func (s *Store) Current() *Catalogue {
	return s.current.Load()
}

// Load parses the definitions file at path and replaces the published
// catalogue with the result. A missing file is not an error: Load returns
// false and the current catalogue stays in place. On a parse error the
// current catalogue is kept as well.
func (s *Store) Load(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("definitions file not found, keeping current catalogue", "path", path)
			return false, nil
		}
		return false, fmt.Errorf("catalog: stat %s: %w", path, err)
	}

	c, err := ParseFile(path)
	if err != nil {
		return false, err
	}
	s.current.Store(c)

	s.logger.Info("definitions loaded",
		"path", path,
		"builds", c.Len(),
		"patches", c.PatchCount(),
		"skipped_lines", len(c.Skipped),
	)
	return true, nil
}
