// Package blobstore owns the filesystem area holding document images and
// their thumbnails. Blobs are addressed by generated unique filenames, kept
// apart from the metadata store so either side can be rebuilt independently.
package blobstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/docusafe/docusafe/internal/common"
)

const defaultExt = ".jpg"

// Store manages blobs under a single directory. The directory is created
// lazily on first write; creating it when it already exists is not an error.
type Store struct {
	dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the managed directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: creating blob dir: %v", common.ErrStorage, err)
	}
	return nil
}

// Store copies the image at sourcePath into managed storage under a fresh
// uuid filename, preserving the source extension (jpg when absent), and
// returns the new blob reference. A failed copy may leave a partial file
// behind; cleanup of those is best-effort and not attempted here.
func (s *Store) Store(sourcePath string) (string, error) {
	if err := s.ensureDir(); err != nil {
		return "", err
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: opening source image: %v", common.ErrStorage, err)
	}
	defer src.Close()

	ext := filepath.Ext(sourcePath)
	if ext == "" {
		ext = defaultExt
	}
	ref := filepath.Join(s.dir, uuid.NewString()+ext)

	dst, err := os.Create(ref)
	if err != nil {
		return "", fmt.Errorf("%w: creating blob: %v", common.ErrStorage, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("%w: copying image: %v", common.ErrStorage, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("%w: closing blob: %v", common.ErrStorage, err)
	}

	return ref, nil
}

// Delete removes a blob. Absent references (including "") are a silent
// no-op: deletion is frequently invoked as best-effort cleanup after a
// prior partial failure.
func (s *Store) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	if err := os.Remove(ref); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: deleting blob: %v", common.ErrStorage, err)
	}
	return nil
}

// SizeOf returns the blob size in bytes, or ok=false when it does not exist.
func (s *Store) SizeOf(ref string) (int64, bool) {
	info, err := os.Stat(ref)
	if err != nil || info.IsDir() {
		return 0, false
	}
	return info.Size(), true
}

// TotalUsage sums the sizes of all managed files. Linear in file count,
// which is bounded by the user's document count.
func (s *Store) TotalUsage() (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: listing blob dir: %v", common.ErrStorage, err)
	}

	var total int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// ClearAll removes the entire managed area and recreates it empty. Only
// the explicit data-wipe flow calls this.
func (s *Store) ClearAll() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("%w: clearing blob dir: %v", common.ErrStorage, err)
	}
	return s.ensureDir()
}
