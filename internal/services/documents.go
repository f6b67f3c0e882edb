// Package services wires the document repository and the blob store into
// the operations the UI layer consumes.
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docusafe/docusafe/internal/blobstore"
	"github.com/docusafe/docusafe/internal/logging"
	"github.com/docusafe/docusafe/internal/models"
	"github.com/docusafe/docusafe/internal/repositories/documents"
)

// DocumentService owns the document lifecycle and keeps metadata rows and
// blob files consistent: blobs are written before the row referencing them,
// and rows are removed before their blobs.
type DocumentService struct {
	repo  documents.Repository
	blobs *blobstore.Store
	log   logging.Logger
	now   func() time.Time
}

// NewDocumentService returns a service over the given repository and blob
// store.
func NewDocumentService(repo documents.Repository, blobs *blobstore.Store, log logging.Logger) *DocumentService {
	return &DocumentService{repo: repo, blobs: blobs, log: log, now: time.Now}
}

// Create persists a new record from input. The image (and optional
// thumbnail) references must already point into blob storage. The returned
// record carries the generated id and timestamps.
func (s *DocumentService) Create(ctx context.Context, input models.DocumentInput) (*models.Document, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = models.CurrencyXAF
	}

	now := s.now().UTC()
	d := &models.Document{
		ID:           uuid.NewString(),
		ImageRef:     input.ImageRef,
		ThumbnailRef: input.ThumbnailRef,
		Amount:       input.Amount,
		Currency:     currency,
		Date:         input.Date.UTC(),
		Category:     input.Category,
		VendorName:   input.VendorName,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Import runs the full capture saga: copy the source image into blob
// storage, derive a thumbnail, then create the metadata record referencing
// both. The blob is written first so a metadata failure leaves only an
// orphaned-but-harmless file, never a dangling reference. A failed
// thumbnail derivation is logged and the record is created without one.
func (s *DocumentService) Import(ctx context.Context, sourcePath string, input models.DocumentInput) (*models.Document, error) {
	ref, err := s.blobs.Store(sourcePath)
	if err != nil {
		return nil, err
	}

	thumbRef, err := s.blobs.DeriveThumbnail(ref)
	if err != nil {
		s.log.Warn(ctx, "thumbnail derivation failed, keeping record without one", "ref", ref, "error", err)
		thumbRef = ""
	}

	input.ImageRef = ref
	input.ThumbnailRef = thumbRef
	return s.Create(ctx, input)
}

// Update merges patch over the stored record and stamps UpdatedAt. The
// read-merge-write runs in one transaction so a concurrent writer cannot
// slip between the read and the write. Returns nil when the record is
// absent (the caller may be racing a delete).
func (s *DocumentService) Update(ctx context.Context, id string, patch models.DocumentPatch) (*models.Document, error) {
	var updated *models.Document
	err := s.repo.InTx(ctx, func(repo documents.Repository) error {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}

		if err := patch.Apply(current); err != nil {
			return err
		}
		current.UpdatedAt = s.now().UTC()

		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the metadata row first, then releases the image and
// thumbnail blobs. Blob cleanup is best-effort: a failure there is logged
// but never fails the delete, since the row is already gone and a leaked
// file is preferable to a dangling reference.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	for _, ref := range []string{d.ImageRef, d.ThumbnailRef} {
		if err := s.blobs.Delete(ref); err != nil {
			s.log.Warn(ctx, "best-effort blob cleanup failed", "ref", ref, "error", err)
		}
	}
	return nil
}

// List returns all records, most recent transaction first.
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	return s.repo.GetAll(ctx)
}

// Search filters List by a case-insensitive substring match of query over
// vendor name, notes and the amount rendered as text, and by exact category
// when categoryFilter is non-empty. An empty query matches everything. The
// result preserves the date-descending order and never mutates stored state.
func (s *DocumentService) Search(ctx context.Context, query, categoryFilter string) ([]models.Document, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))

	var result []models.Document
	for _, d := range all {
		if categoryFilter != "" && d.Category != categoryFilter {
			continue
		}
		if q != "" {
			haystack := strings.ToLower(fmt.Sprintf("%s %s %s",
				d.VendorName, d.Notes, strconv.FormatFloat(d.Amount, 'f', -1, 64)))
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		result = append(result, d)
	}
	return result, nil
}

// TotalUsage reports the bytes consumed by blob storage.
func (s *DocumentService) TotalUsage() (int64, error) {
	return s.blobs.TotalUsage()
}

// WipeAll removes every record and every blob. Rows go first, mirroring the
// single-record deletion order.
func (s *DocumentService) WipeAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	return s.blobs.ClearAll()
}
