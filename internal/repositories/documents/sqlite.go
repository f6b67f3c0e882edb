package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/docusafe/docusafe/internal/common"
	"github.com/docusafe/docusafe/internal/dbx"
	"github.com/docusafe/docusafe/internal/models"
)

// timeLayout is RFC 3339 with fixed-width fractional seconds. RFC3339Nano
// drops trailing zeros, so a whole-second value would sort lexically after
// a later sub-second value in the same second ('Z' > '.'); zero-padding
// keeps lexical ORDER BY chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Schema creates the documents table. Timestamps and the transaction date
// are stored as fixed-width RFC 3339 text so lexical ORDER BY matches
// chronological order.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY NOT NULL,
    image_uri TEXT NOT NULL,
    thumbnail_uri TEXT,
    amount REAL NOT NULL,
    currency TEXT NOT NULL DEFAULT 'XAF',
    date TEXT NOT NULL,
    category TEXT NOT NULL,
    vendor_name TEXT,
    notes TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_date ON documents(date);
`

// Migrate applies the schema. Safe to run on every startup.
func Migrate(ctx context.Context, db dbx.DBTX) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("%w: applying documents schema: %v", common.ErrRepository, err)
	}
	return nil
}

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const documentColumns = `id, image_uri, thumbnail_uri, amount, currency, date, category, vendor_name, notes, created_at, updated_at`

func (r *SQLiteRepository) Insert(ctx context.Context, d *models.Document) error {
	query := `INSERT INTO documents (` + documentColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.ImageRef, nullable(d.ThumbnailRef), d.Amount, d.Currency,
		d.Date.UTC().Format(timeLayout), d.Category,
		nullable(d.VendorName), nullable(d.Notes),
		d.CreatedAt.UTC().Format(timeLayout),
		d.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("%w: inserting document: %v", common.ErrRepository, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting documents: %v", common.ErrRepository, err)
	}
	defer rows.Close()

	var result []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning document: %v", common.ErrRepository, err)
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating documents: %v", common.ErrRepository, err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading document: %v", common.ErrRepository, err)
	}
	return d, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, d *models.Document) error {
	query := `UPDATE documents
			SET image_uri = ?, thumbnail_uri = ?, amount = ?, currency = ?, date = ?,
			    category = ?, vendor_name = ?, notes = ?, updated_at = ?
			WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		d.ImageRef, nullable(d.ThumbnailRef), d.Amount, d.Currency,
		d.Date.UTC().Format(timeLayout), d.Category,
		nullable(d.VendorName), nullable(d.Notes),
		d.UpdatedAt.UTC().Format(timeLayout),
		d.ID)
	if err != nil {
		return fmt.Errorf("%w: updating document: %v", common.ErrRepository, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: deleting document: %v", common.ErrRepository, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("%w: deleting documents: %v", common.ErrRepository, err)
	}
	return nil
}

// InTx wraps fn in a transaction when the repository is bound to a *sql.DB.
// Bound to a *sql.Tx it is already transactional, so fn runs directly.
func (r *SQLiteRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return fn(r)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(NewSQLiteRepository(tx))
	})
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*models.Document, error) {
	var (
		d                      models.Document
		thumb, vendor, notes   sql.NullString
		date, created, updated string
	)
	if err := s.Scan(&d.ID, &d.ImageRef, &thumb, &d.Amount, &d.Currency,
		&date, &d.Category, &vendor, &notes, &created, &updated); err != nil {
		return nil, err
	}

	d.ThumbnailRef = thumb.String
	d.VendorName = vendor.String
	d.Notes = notes.String

	var err error
	if d.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, err
	}
	return &d, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
