// Package filesystem reads the static resources the server responds with,
// either from a directory on disk or from memory.
package filesystem

//go:generate mockgen -source=filesystem.go -destination=mock_filesystem.go -package=filesystem -write_package_comment=false

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrFileNotFound = fmt.Errorf("filesystem: file not found")
	ErrInvalidPath  = fmt.Errorf("filesystem: invalid path")
)

// Filesystem is the read side of durable storage the server pulls its static
// resources from.
type Filesystem interface {
	ReadFile(name string) ([]byte, error)
	FileExists(name string) (bool, error)
}

type localFileSystem struct {
	root string
}

// NewLocalFileSystem serves files below root. An empty root means the process
// working directory.
func NewLocalFileSystem(root string) Filesystem {
	if root == "" {
		root = "."
	}
	return &localFileSystem{root: root}
}

func (filesystem *localFileSystem) path(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes root", ErrInvalidPath, name)
	}

	return filepath.Join(filesystem.root, clean), nil
}

func (filesystem *localFileSystem) FileExists(name string) (bool, error) {
	path, err := filesystem.path(name)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return !info.IsDir(), nil
}

func (filesystem *localFileSystem) ReadFile(name string) ([]byte, error) {
	path, err := filesystem.path(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("closing file error", "file", path, "error", closeErr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidPath, name)
	}

	content := make([]byte, info.Size())
	if _, err := file.ReadAt(content, 0); err != nil {
		return nil, err
	}

	return content, nil
}

type memoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileSystem serves a fixed set of files from memory. The map is
// copied.
func NewMemoryFileSystem(files map[string][]byte) Filesystem {
	filesystem := &memoryFileSystem{files: make(map[string][]byte, len(files))}
	for name, content := range files {
		filesystem.files[name] = append([]byte(nil), content...)
	}
	return filesystem
}

func (filesystem *memoryFileSystem) FileExists(name string) (bool, error) {
	if name == "" {
		return false, ErrInvalidPath
	}

	filesystem.mu.RLock()
	defer filesystem.mu.RUnlock()

	_, found := filesystem.files[name]
	return found, nil
}

func (filesystem *memoryFileSystem) ReadFile(name string) ([]byte, error) {
	if name == "" {
		return nil, ErrInvalidPath
	}

	filesystem.mu.RLock()
	defer filesystem.mu.RUnlock()

	content, found := filesystem.files[name]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	return append([]byte(nil), content...), nil
}

// MustExist reports every name that is missing from filesystem as a single
// error.
func MustExist(filesystem Filesystem, names ...string) error {
	var errs []error
	for _, name := range names {
		exists, err := filesystem.FileExists(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrFileNotFound, name))
		}
	}
	return errors.Join(errs...)
}
