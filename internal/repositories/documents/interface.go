// Package documents persists document metadata rows. It is the only writer
// to the documents table; blob files live in the blob store and are only
// referenced from here.
package documents

import (
	"context"

	"github.com/docusafe/docusafe/internal/models"
)

// Repository describes the metadata operations for document records.
// Implementations are backed by a local SQLite database.
type Repository interface {
	// Insert persists a fully populated record.
	Insert(ctx context.Context, d *models.Document) error

	// GetAll returns every record ordered by transaction date descending.
	GetAll(ctx context.Context) ([]models.Document, error)

	// GetByID returns the record with the given id, or nil when absent.
	// Absence is not an error; the caller may be racing a delete.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// Update overwrites the mutable columns of an existing row.
	Update(ctx context.Context, d *models.Document) error

	// DeleteByID removes a row. Deleting an absent id is a no-op.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAll wipes every record. Blob cleanup is the caller's job.
	DeleteAll(ctx context.Context) error

	// InTx runs fn against a transactional view of the repository,
	// committing when fn returns nil and rolling back otherwise. A call
	// made inside an existing transaction reuses it.
	InTx(ctx context.Context, fn func(Repository) error) error
}
