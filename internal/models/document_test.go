package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docusafe/docusafe/internal/common"
)

func validInput() DocumentInput {
	return DocumentInput{
		ImageRef: "/data/blobs/abc.jpg",
		Amount:   5000,
		Currency: CurrencyXAF,
		Date:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Category: "fuel",
	}
}

func TestDocumentInputValidate(t *testing.T) {
	in := validInput()
	in.Category = "transport"
	require.NoError(t, in.Validate())

	tests := []struct {
		name   string
		mutate func(*DocumentInput)
	}{
		{"missing image ref", func(in *DocumentInput) { in.ImageRef = "" }},
		{"negative amount", func(in *DocumentInput) { in.Amount = -1 }},
		{"unknown category", func(in *DocumentInput) { in.Category = "fuel" }},
		{"zero date", func(in *DocumentInput) { in.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.Category = "transport"
			tt.mutate(&in)
			err := in.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrValidation))
		})
	}
}

func TestDocumentPatchApply(t *testing.T) {
	d := Document{
		ID:       "id1",
		ImageRef: "/data/blobs/a.jpg",
		Amount:   100,
		Category: "food",
		Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	amount := 250.0
	require.NoError(t, (&DocumentPatch{Amount: &amount}).Apply(&d))
	assert.Equal(t, 250.0, d.Amount)
	assert.Equal(t, "food", d.Category)
	assert.Equal(t, "/data/blobs/a.jpg", d.ImageRef)

	bad := -5.0
	err := (&DocumentPatch{Amount: &bad}).Apply(&d)
	assert.True(t, errors.Is(err, common.ErrValidation))

	empty := ""
	err = (&DocumentPatch{ImageRef: &empty}).Apply(&d)
	assert.True(t, errors.Is(err, common.ErrValidation))

	// thumbnail may be cleared
	require.NoError(t, (&DocumentPatch{ThumbnailRef: &empty}).Apply(&d))
	assert.Empty(t, d.ThumbnailRef)
}

func TestIsAmountText(t *testing.T) {
	assert.True(t, IsAmountText("5000"))
	assert.True(t, IsAmountText("120.50"))
	assert.True(t, IsAmountText(" 7.5 "))
	assert.False(t, IsAmountText("12.505"))
	assert.False(t, IsAmountText("-3"))
	assert.False(t, IsAmountText("abc"))
	assert.False(t, IsAmountText(""))
}

func TestValidatePin(t *testing.T) {
	assert.NoError(t, ValidatePin("1234"))
	assert.NoError(t, ValidatePin("123456"))
	assert.Error(t, ValidatePin("123"))
	assert.Error(t, ValidatePin("1234567"))
	assert.Error(t, ValidatePin("12ab"))
	assert.Error(t, ValidatePin(""))
}

func TestCategoryLookup(t *testing.T) {
	c, ok := CategoryByID("rent")
	require.True(t, ok)
	assert.Equal(t, "Loyer", c.NameFR)

	_, ok = CategoryByID("fuel")
	assert.False(t, ok)

	assert.Len(t, Categories, 6)
}
