//go:build !unix

package patch

import "os"

// lockFile is a no-op on platforms without flock(2). On Windows the
// executable being patched is already share-locked while it runs.
func lockFile(_ *os.File) error { return nil }

func unlockFile(_ *os.File) error { return nil }
