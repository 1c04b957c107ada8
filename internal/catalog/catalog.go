// Package catalog holds the known executable builds and the patches assigned
// to them, parsed from a definitions file.
package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/eternalmods/eternalpatcher/internal/checksum"
	"github.com/eternalmods/eternalpatcher/internal/patch"
)

// Build is a known version of the target executable.
type Build struct {
	// ID is the identifier given on the left of the definitions line.
	ID string
	// ExecutableFileName is the expected base name of the executable.
	ExecutableFileName string
	// Checksum is the expected hex content hash.
	Checksum string
	// Groups lists the patch group tags the build subscribes to.
	Groups []string
	// Patches holds the assigned patches in definitions-file order.
	Patches []*patch.Patch
}

// HasGroup reports whether the build subscribes to tag.
func (b *Build) HasGroup(tag string) bool {
	for _, g := range b.Groups {
		if g == tag {
			return true
		}
	}
	return false
}

// Patch returns the assigned patch with the given description (case-insensitive).
func (b *Build) Patch(description string) *patch.Patch {
	for _, p := range b.Patches {
		if p.SameDescription(description) {
			return p
		}
	}
	return nil
}

// assign appends p unless a patch with the same description is already
// assigned. It reports whether p was added.
func (b *Build) assign(p *patch.Patch) bool {
	if b.Patch(p.Description) != nil {
		return false
	}
	b.Patches = append(b.Patches, p)
	return true
}

// Catalogue is the parsed content of a definitions file. It is read-only once
// published and safe for concurrent use.
type Catalogue struct {
	Builds []*Build
	// Skipped lists the line numbers of malformed lines that were ignored.
	Skipped []int
}

// Len returns the number of builds.
func (c *Catalogue) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Builds)
}

// AnyPatchesLoaded reports whether at least one build has a patch assigned.
func (c *Catalogue) AnyPatchesLoaded() bool {
	if c == nil {
		return false
	}
	for _, b := range c.Builds {
		if len(b.Patches) > 0 {
			return true
		}
	}
	return false
}

// PatchCount returns the number of distinct patches across all builds.
func (c *Catalogue) PatchCount() int {
	if c == nil {
		return 0
	}
	seen := make(map[*patch.Patch]struct{})
	for _, b := range c.Builds {
		for _, p := range b.Patches {
			seen[p] = struct{}{}
		}
	}
	return len(seen)
}

// Lookup returns the first build matching the executable base name and
// checksum exactly, or nil.
func (c *Catalogue) Lookup(fileName, sum string) *Build {
	if c == nil {
		return nil
	}
	for _, b := range c.Builds {
		if b.Checksum == sum && b.ExecutableFileName == fileName {
			return b
		}
	}
	return nil
}

// Identify hashes the file at path with alg and returns the matching build.
// An unknown build is reported as nil with a nil error; only I/O failures
// are errors.
func (c *Catalogue) Identify(path string, alg checksum.Algorithm) (*Build, error) {
	sum, err := checksum.HashFile(path, alg)
	if err != nil {
		return nil, fmt.Errorf("catalog: identify: %w", err)
	}
	return c.Lookup(filepath.Base(path), sum), nil
}
