// Package fs is the narrow filesystem seam pkg/bridge's local-disk
// implementation reads and writes through, so tests can swap in a fake
// without touching a real directory.
package fs

import "os"

// FS is the subset of os-level filesystem operations the local bridge
// needs: reading content, creating the parent directory for an atomic
// write, and removing a deleted document's file.
type FS interface {
	ReadFile(path string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error

	// Exists reports whether path exists, without distinguishing file from
	// directory. Returns (false, nil) if not found, (false, err) on any
	// other Stat failure.
	Exists(path string) (bool, error)
}
