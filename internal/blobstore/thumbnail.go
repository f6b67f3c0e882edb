package blobstore

import (
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/docusafe/docusafe/internal/common"
)

const (
	thumbnailWidth   = 400
	thumbnailQuality = 40
)

// DeriveThumbnail produces a 400px-wide recompressed JPEG copy of the blob
// and stores it under a fresh thumbnail reference inside managed storage.
// The result is written directly into the managed directory, never into a
// transient cache area the OS could purge.
func (s *Store) DeriveThumbnail(ref string) (string, error) {
	img, err := imaging.Open(ref, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: decoding image: %v", common.ErrStorage, err)
	}

	// height 0 keeps the aspect ratio
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	if err := s.ensureDir(); err != nil {
		return "", err
	}

	thumbRef := filepath.Join(s.dir, "thumb-"+uuid.NewString()+".jpg")
	if err := imaging.Save(thumb, thumbRef, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return "", fmt.Errorf("%w: encoding thumbnail: %v", common.ErrStorage, err)
	}

	return thumbRef, nil
}
