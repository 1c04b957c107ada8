// Package checksum computes content hashes used to identify executable builds.
package checksum

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Algorithm names a supported content hash.
type Algorithm string

const (
	// MD5 is the algorithm definitions files carry. Default.
	MD5 Algorithm = "md5"
	// SHA256 is SHA-256.
	SHA256 Algorithm = "sha256"
	// BLAKE2b is BLAKE2b-256.
	BLAKE2b Algorithm = "blake2b"
)

// ParseAlgorithm returns the Algorithm named by s (case-insensitive).
// An empty string selects MD5.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", MD5:
		return MD5, nil
	case SHA256:
		return SHA256, nil
	case BLAKE2b:
		return BLAKE2b, nil
	default:
		return "", fmt.Errorf("checksum: unknown algorithm %q (valid: md5, sha256, blake2b)", s)
	}
}

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case "", MD5:
		return md5.New(), nil
	case SHA256:
		return sha256.New(), nil
	case BLAKE2b:
		return blake2b.New256(nil)
	default:
		return nil, fmt.Errorf("checksum: unknown algorithm %q", string(a))
	}
}

// HashFile computes the checksum of the file at path with a single sequential
// read. The result is lower-case hex.
func HashFile(path string, alg Algorithm) (string, error) {
	h, err := alg.newHash()
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("checksum: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksum: hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File computes the MD5 checksum of the file at path.
func File(path string) (string, error) {
	return HashFile(path, MD5)
}
