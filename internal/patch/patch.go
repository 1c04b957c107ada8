// Package patch implements the byte-level edits applied to executable builds.
//
// A Patch is either offset-anchored (overwrite bytes at a fixed position) or
// pattern-anchored (scan for an exact byte sequence, then overwrite it in
// place). Neither kind ever changes the length of the target file.
package patch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Kind selects the edit strategy of a Patch.
type Kind int

const (
	// Offset overwrites bytes starting at a fixed file offset.
	Offset Kind = iota + 1
	// Pattern overwrites the first occurrence of a byte sequence.
	Pattern
)

// String returns the definitions-file keyword for k.
func (k Kind) String() string {
	switch k {
	case Offset:
		return "offset"
	case Pattern:
		return "pattern"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the definitions-file keyword (case-insensitive).
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "offset":
		return Offset, true
	case "pattern":
		return Pattern, true
	default:
		return 0, false
	}
}

// Validation errors returned by Patch.Validate.
var (
	ErrNilPatch         = errors.New("patch: nil patch")
	ErrUnknownKind      = errors.New("patch: unknown kind")
	ErrEmptyReplacement = errors.New("patch: replacement bytes are empty")
	ErrEmptyPattern     = errors.New("patch: pattern bytes are empty")
	ErrLengthMismatch   = errors.New("patch: pattern and replacement lengths differ")
	ErrNegativeOffset   = errors.New("patch: negative offset")
)

// Patch is a declarative byte-level edit. Patches are immutable after
// construction and may be shared by several builds.
type Patch struct {
	// Description identifies the patch within a build (case-insensitive).
	Description string
	Kind        Kind
	// Offset is the target position. Offset patches only.
	Offset int64
	// Pattern is the byte sequence searched for. Pattern patches only.
	Pattern []byte
	// Replacement is written verbatim over the target range.
	Replacement []byte
}

// NewOffset returns an offset patch writing replacement at offset.
func NewOffset(description string, offset int64, replacement []byte) *Patch {
	return &Patch{
		Description: description,
		Kind:        Offset,
		Offset:      offset,
		Replacement: clone(replacement),
	}
}

// NewPattern returns a pattern patch overwriting the first occurrence of
// pattern with replacement.
func NewPattern(description string, pattern, replacement []byte) *Patch {
	return &Patch{
		Description: description,
		Kind:        Pattern,
		Pattern:     clone(pattern),
		Replacement: clone(replacement),
	}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// SameDescription reports whether p is described by description, ignoring case.
func (p *Patch) SameDescription(description string) bool {
	return strings.EqualFold(p.Description, description)
}

// Validate checks the invariants that do not depend on the target file.
func (p *Patch) Validate() error {
	if p == nil {
		return ErrNilPatch
	}
	if len(p.Replacement) == 0 {
		return ErrEmptyReplacement
	}
	switch p.Kind {
	case Offset:
		if p.Offset < 0 {
			return ErrNegativeOffset
		}
	case Pattern:
		if len(p.Pattern) == 0 {
			return ErrEmptyPattern
		}
		if len(p.Pattern) != len(p.Replacement) {
			return ErrLengthMismatch
		}
	default:
		return ErrUnknownKind
	}
	return nil
}

// Target is a file opened for both reading and writing. *os.File satisfies it.
type Target interface {
	io.ReaderAt
	io.WriterAt
	Stat() (os.FileInfo, error)
}

// Apply performs the edit against t. It returns false with a nil error when
// the patch cannot be applied (invalid patch, out of bounds, pattern not
// found); nothing is written in that case. A non-nil error reports an I/O
// failure.
func (p *Patch) Apply(t Target, blockSize int) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, nil
	}
	switch p.Kind {
	case Offset:
		return p.applyOffset(t)
	case Pattern:
		return p.applyPattern(t, blockSize)
	}
	return false, nil
}

func (p *Patch) applyOffset(t Target) (bool, error) {
	info, err := t.Stat()
	if err != nil {
		return false, fmt.Errorf("patch: stat: %w", err)
	}
	size := info.Size()
	end := p.Offset + int64(len(p.Replacement))

	// The edit has to fit before the last byte of the file.
	if p.Offset > size-1 || end > size-1 {
		return false, nil
	}

	if _, err := t.WriteAt(p.Replacement, p.Offset); err != nil {
		return false, fmt.Errorf("patch: write %d bytes at 0x%x: %w", len(p.Replacement), p.Offset, err)
	}
	return true, nil
}

func (p *Patch) applyPattern(t Target, blockSize int) (bool, error) {
	pos, err := Find(t, p.Pattern, blockSize)
	if err != nil {
		return false, err
	}
	if pos < 0 {
		return false, nil
	}
	if _, err := t.WriteAt(p.Replacement, pos); err != nil {
		return false, fmt.Errorf("patch: write %d bytes at 0x%x: %w", len(p.Replacement), pos, err)
	}
	return true, nil
}

// Find scans r forward in blockSize chunks and returns the absolute offset of
// the first occurrence of pattern, or -1 when there is none.
//
// The matcher keeps a single counter of matched pattern bytes and resets it to
// zero on any mismatch without re-testing the mismatching byte. Patterns whose
// prefix repeats inside themselves can therefore be missed (searching "AAB" in
// "AAAB" finds nothing). Existing definitions files are written against this
// behaviour.
func Find(r io.ReaderAt, pattern []byte, blockSize int) (int64, error) {
	if len(pattern) == 0 {
		return -1, nil
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	buf := make([]byte, blockSize)
	matches := 0
	var consumed int64

	for {
		n, err := r.ReadAt(buf, consumed)
		for i := 0; i < n; i++ {
			if buf[i] != pattern[matches] {
				matches = 0
				continue
			}
			matches++
			if matches == len(pattern) {
				return consumed + int64(i) - int64(len(pattern)-1), nil
			}
		}
		consumed += int64(n)

		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			return -1, nil
		}
		if err != nil {
			return -1, fmt.Errorf("patch: read at 0x%x: %w", consumed, err)
		}
	}
}
