// Package fsutil provides file helpers shared by the patcher commands.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to dir/name atomically using a temp file and rename.
// This ensures readers never observe a partially-written file.
func WriteFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	return writeAtomic(filepath.Join(dir, name), perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteReaderAtomic streams r into path through a temp file in the same
// directory and renames it into place once fully written.
func WriteReaderAtomic(path string, r io.Reader, perm os.FileMode) error {
	return writeAtomic(path, perm, func(w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	})
}

// CopyFile copies src to dst, replacing dst if it exists. The copy keeps the
// permission bits of src.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("fsutil: open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("fsutil: stat %s: %w", src, err)
	}
	if err := WriteReaderAtomic(dst, in, info.Mode().Perm()); err != nil {
		return fmt.Errorf("fsutil: copy %s to %s: %w", src, dst, err)
	}
	return nil
}

func writeAtomic(targetPath string, perm os.FileMode, write func(io.Writer) error) error {
	dir, name := filepath.Split(targetPath)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, ".tmp-"+name+"-*")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	defer os.Remove(tmpPath) // clean up on error

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, targetPath)
}
