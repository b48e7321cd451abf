// Package fileops defines the file system operations the organizer depends
// on, and a default OS-backed implementation.
package fileops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/crateindex/crateindex/internal/catalogerr"
)

// FileOps is the file system seam the FileOrganizer depends on, so that
// callers can inject test doubles or alternative backends. Copy is the only
// method that returns an error; its errors wrap catalogerr.ErrIO.
type FileOps interface {
	Copy(src, dst string) error
	Exists(path string) bool
	ParentOf(path string) string
	Join(a, b string) string
}

// OS is the default FileOps implementation, backed by the local file system.
type OS struct{}

// Copy copies src to dst, creating dst's parent directories as needed. It
// does not skip existing destinations; collision handling is the
// organizer's responsibility.
func (OS) Copy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dst, catalogerr.ErrIO)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, catalogerr.ErrIO)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, catalogerr.ErrIO)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		os.Remove(dst)
		return fmt.Errorf("copy %s to %s: %w", src, dst, catalogerr.ErrIO)
	}

	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, catalogerr.ErrIO)
	}
	return nil
}

// Exists reports whether path exists on disk.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ParentOf returns the directory portion of path.
func (OS) ParentOf(path string) string {
	return filepath.Dir(path)
}

// Join joins two path components using the platform separator.
func (OS) Join(a, b string) string {
	return filepath.Join(a, b)
}
