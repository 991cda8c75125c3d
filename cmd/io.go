// Package cmd implements the mdsplice CLI commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileIO handles the filesystem operations shared by the commands that read
// or write a document in place.
type FileIO interface {
	ReadFile(path string) ([]byte, error)
	StatFile(path string) (bool, error)
	// WriteFileAtomic writes content to path via a temp file in the same
	// directory, then renames it into place. If backup is true, the
	// pre-write content of path (when it exists) is first copied to
	// path+".bak" (SPEC_FULL.md §C.2).
	WriteFileAtomic(path string, content []byte, backup bool) error
}

// fileIO implements FileIO using OS file I/O, adapted from cmd/init.go's
// WriteFileAtomicImpl (temp file + chmod + rename), generalized from a
// fixed string body to arbitrary bytes plus the optional sibling backup.
type fileIO struct{}

func newDefaultFileIO() fileIO { return fileIO{} }

func (fileIO) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (fileIO) StatFile(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (f fileIO) WriteFileAtomic(path string, content []byte, backup bool) error {
	if backup {
		if exists, err := f.StatFile(path); err != nil {
			return fmt.Errorf("checking %s before backup: %w", path, err)
		} else if exists {
			original, err := f.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s for backup: %w", path, err)
			}
			if err := os.WriteFile(path+".bak", original, 0600); err != nil {
				return fmt.Errorf("writing backup %s.bak: %w", path, err)
			}
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mdsplice-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
