package blobstore

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docusafe/docusafe/internal/common"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "blobs"))
}

// writeSourceImage saves a small JPEG outside managed storage and returns
// its path.
func writeSourceImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "receipt.jpg")
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestStoreCopiesIntoManagedDir(t *testing.T) {
	s := newStore(t)
	src := writeSourceImage(t, 80, 60)

	ref, err := s.Store(src)
	require.NoError(t, err)

	assert.Equal(t, s.Dir(), filepath.Dir(ref))
	assert.Equal(t, ".jpg", filepath.Ext(ref))

	size, ok := s.SizeOf(ref)
	require.True(t, ok)
	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	assert.Equal(t, srcInfo.Size(), size)

	// source remains untouched
	_, err = os.Stat(src)
	assert.NoError(t, err)
}

func TestStoreDefaultsExtension(t *testing.T) {
	s := newStore(t)

	src := filepath.Join(t.TempDir(), "noext")
	require.NoError(t, os.WriteFile(src, []byte("not really an image"), 0o600))

	ref, err := s.Store(src)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(ref))
}

func TestStoreUnreadableSource(t *testing.T) {
	s := newStore(t)

	_, err := s.Store(filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestDeleteIdempotent(t *testing.T) {
	s := newStore(t)
	src := writeSourceImage(t, 40, 40)

	ref, err := s.Store(src)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ref))
	_, ok := s.SizeOf(ref)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ref)) // second delete is a no-op
	require.NoError(t, s.Delete(""))
	_, ok = s.SizeOf(ref)
	assert.False(t, ok)
}

func TestDeriveThumbnail(t *testing.T) {
	s := newStore(t)
	src := writeSourceImage(t, 800, 600)

	ref, err := s.Store(src)
	require.NoError(t, err)

	thumbRef, err := s.DeriveThumbnail(ref)
	require.NoError(t, err)

	assert.Equal(t, s.Dir(), filepath.Dir(thumbRef))
	assert.True(t, strings.HasPrefix(filepath.Base(thumbRef), "thumb-"))

	thumb, err := imaging.Open(thumbRef)
	require.NoError(t, err)
	assert.Equal(t, 400, thumb.Bounds().Dx())
	assert.Equal(t, 300, thumb.Bounds().Dy())

	// recompressed copy should be smaller than the original
	origSize, _ := s.SizeOf(ref)
	thumbSize, _ := s.SizeOf(thumbRef)
	assert.Less(t, thumbSize, origSize)
}

func TestDeriveThumbnailDecodeFailure(t *testing.T) {
	s := newStore(t)

	bogus := filepath.Join(t.TempDir(), "bogus.jpg")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0o600))

	_, err := s.DeriveThumbnail(bogus)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestTotalUsageAndClearAll(t *testing.T) {
	s := newStore(t)

	total, err := s.TotalUsage()
	require.NoError(t, err)
	assert.Zero(t, total) // managed dir not created yet

	src := writeSourceImage(t, 100, 100)
	ref1, err := s.Store(src)
	require.NoError(t, err)
	ref2, err := s.Store(src)
	require.NoError(t, err)

	size1, _ := s.SizeOf(ref1)
	size2, _ := s.SizeOf(ref2)

	total, err = s.TotalUsage()
	require.NoError(t, err)
	assert.Equal(t, size1+size2, total)

	require.NoError(t, s.ClearAll())

	total, err = s.TotalUsage()
	require.NoError(t, err)
	assert.Zero(t, total)

	// managed dir recreated and usable
	_, err = s.Store(src)
	assert.NoError(t, err)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KB", FormatBytes(1024))
	assert.Equal(t, "2.5 MB", FormatBytes(2621440))
}
