package patch

import "fmt"

const (
	// DefaultBlockSize is the read size used by the pattern scan.
	DefaultBlockSize = 1024

	// MaxBlockSize bounds the scan buffer.
	MaxBlockSize = 16 << 20
)

// Config holds the configuration for an Applier.
type Config struct {
	// BlockSize is the number of bytes read per step of the pattern scan.
	// Default: 1024
	BlockSize int `yaml:"block_size" toml:"block_size"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.BlockSize < 1 || c.BlockSize > MaxBlockSize {
		return fmt.Errorf("patch: config: BlockSize must be between 1 and %d, got %d", MaxBlockSize, c.BlockSize)
	}
	return nil
}
