// Package models defines the document, category and settings types shared
// by the repository, services and session layers.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/docusafe/docusafe/internal/common"
)

// CurrencyXAF is the single supported currency unit.
const CurrencyXAF = "XAF"

// Document is a stored receipt/invoice record. ID and CreatedAt are
// immutable after creation; every other field may change, with UpdatedAt
// stamped on each mutation.
type Document struct {
	ID           string
	ImageRef     string
	ThumbnailRef string // empty means no thumbnail
	Amount       float64
	Currency     string
	Date         time.Time // when the transaction occurred, user-supplied
	Category     string
	VendorName   string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DocumentInput carries the caller-supplied fields for a new document.
// Image and thumbnail references must already have been produced by the
// blob store.
type DocumentInput struct {
	ImageRef     string
	ThumbnailRef string
	Amount       float64
	Currency     string
	Date         time.Time
	Category     string
	VendorName   string
	Notes        string
}

// Validate checks the input against the document constraints.
func (in *DocumentInput) Validate() error {
	if in.ImageRef == "" {
		return fmt.Errorf("%w: image reference is required", common.ErrValidation)
	}
	if in.Amount < 0 {
		return fmt.Errorf("%w: amount must be non-negative", common.ErrValidation)
	}
	if !IsValidCategory(in.Category) {
		return fmt.Errorf("%w: unknown category %q", common.ErrValidation, in.Category)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", common.ErrValidation)
	}
	return nil
}

// DocumentPatch holds a partial update; nil fields keep their current value.
type DocumentPatch struct {
	ImageRef     *string
	ThumbnailRef *string
	Amount       *float64
	Date         *time.Time
	Category     *string
	VendorName   *string
	Notes        *string
}

// Apply merges the non-nil patch fields over d after validating them.
// ID, Currency and CreatedAt are never modified here.
func (p *DocumentPatch) Apply(d *Document) error {
	if p.Amount != nil && *p.Amount < 0 {
		return fmt.Errorf("%w: amount must be non-negative", common.ErrValidation)
	}
	if p.Category != nil && !IsValidCategory(*p.Category) {
		return fmt.Errorf("%w: unknown category %q", common.ErrValidation, *p.Category)
	}
	if p.ImageRef != nil {
		if *p.ImageRef == "" {
			return fmt.Errorf("%w: image reference cannot be cleared", common.ErrValidation)
		}
		d.ImageRef = *p.ImageRef
	}
	if p.ThumbnailRef != nil {
		d.ThumbnailRef = *p.ThumbnailRef
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.VendorName != nil {
		d.VendorName = *p.VendorName
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	return nil
}

var amountTextRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// IsAmountText reports whether value looks like a monetary amount with at
// most two decimal places.
func IsAmountText(value string) bool {
	return amountTextRe.MatchString(strings.TrimSpace(value))
}

var pinRe = regexp.MustCompile(`^\d{4,6}$`)

// ValidatePin checks that pin is 4 to 6 digits.
func ValidatePin(pin string) error {
	if !pinRe.MatchString(pin) {
		return fmt.Errorf("%w: PIN must be 4-6 digits", common.ErrValidation)
	}
	return nil
}
