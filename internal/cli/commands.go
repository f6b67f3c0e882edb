package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/docusafe/docusafe/internal/blobstore"
	"github.com/docusafe/docusafe/internal/models"
	"github.com/docusafe/docusafe/internal/settings"
)

const dateLayout = "2006-01-02"

func (a *App) cmdList(ctx context.Context) {
	docs, err := a.docs.List(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not list documents: %v\n", err)
		return
	}
	a.printDocuments(docs)
}

func (a *App) cmdSearch(ctx context.Context) {
	query, err := GetSimpleText(a.reader, "Search text (empty matches all)", a.out)
	if err != nil {
		return
	}
	category, err := GetSimpleText(a.reader, "Category filter (empty for none): "+categoryIDs(), a.out)
	if err != nil {
		return
	}
	if category != "" && !models.IsValidCategory(category) {
		fmt.Fprintf(a.out, "Unknown category %q.\n", category)
		return
	}

	docs, err := a.docs.Search(ctx, query, category)
	if err != nil {
		fmt.Fprintf(a.out, "Search failed: %v\n", err)
		return
	}
	a.printDocuments(docs)
}

func (a *App) cmdAdd(ctx context.Context) {
	source, err := GetSimpleText(a.reader, "Path to the receipt image", a.out)
	if err != nil || source == "" {
		return
	}

	amountText, err := GetSimpleText(a.reader, "Amount ("+models.CurrencyXAF+")", a.out)
	if err != nil {
		return
	}
	if !models.IsAmountText(amountText) {
		fmt.Fprintln(a.out, "Amount must be a number with at most two decimals.")
		return
	}
	amount, _ := strconv.ParseFloat(strings.TrimSpace(amountText), 64)

	category, err := GetSimpleText(a.reader, "Category: "+categoryIDs(), a.out)
	if err != nil {
		return
	}

	dateText, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD, empty for today)", a.out)
	if err != nil {
		return
	}
	date := time.Now().UTC()
	if dateText != "" {
		if date, err = time.Parse(dateLayout, dateText); err != nil {
			fmt.Fprintln(a.out, "Invalid date.")
			return
		}
	}

	vendor, err := GetSimpleText(a.reader, "Vendor (optional)", a.out)
	if err != nil {
		return
	}
	notes, err := GetSimpleText(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return
	}

	doc, err := a.docs.Import(ctx, source, models.DocumentInput{
		Amount:     amount,
		Date:       date,
		Category:   category,
		VendorName: vendor,
		Notes:      notes,
	})
	if err != nil {
		fmt.Fprintf(a.out, "Could not add document: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Added %s.\n", doc.ID)
}

func (a *App) cmdShow(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Document id", a.out)
	if err != nil || id == "" {
		return
	}

	docs, err := a.docs.List(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not read documents: %v\n", err)
		return
	}
	for _, d := range docs {
		if d.ID != id {
			continue
		}
		size, _ := a.blobs.SizeOf(d.ImageRef)
		fmt.Fprintf(a.out, "id:        %s\n", d.ID)
		fmt.Fprintf(a.out, "vendor:    %s\n", d.VendorName)
		fmt.Fprintf(a.out, "amount:    %s %s\n", strconv.FormatFloat(d.Amount, 'f', -1, 64), d.Currency)
		fmt.Fprintf(a.out, "category:  %s\n", d.Category)
		fmt.Fprintf(a.out, "date:      %s\n", d.Date.Format(dateLayout))
		fmt.Fprintf(a.out, "notes:     %s\n", d.Notes)
		fmt.Fprintf(a.out, "image:     %s (%s)\n", d.ImageRef, blobstore.FormatBytes(size))
		if d.ThumbnailRef != "" {
			fmt.Fprintf(a.out, "thumbnail: %s\n", d.ThumbnailRef)
		}
		return
	}
	fmt.Fprintln(a.out, "No such document.")
}

func (a *App) cmdUpdate(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Document id", a.out)
	if err != nil || id == "" {
		return
	}

	var patch models.DocumentPatch

	amountText, err := GetSimpleText(a.reader, "New amount (empty to keep)", a.out)
	if err != nil {
		return
	}
	if amountText != "" {
		if !models.IsAmountText(amountText) {
			fmt.Fprintln(a.out, "Amount must be a number with at most two decimals.")
			return
		}
		amount, _ := strconv.ParseFloat(strings.TrimSpace(amountText), 64)
		patch.Amount = &amount
	}

	vendor, err := GetSimpleText(a.reader, "New vendor (empty to keep)", a.out)
	if err != nil {
		return
	}
	if vendor != "" {
		patch.VendorName = &vendor
	}

	notes, err := GetSimpleText(a.reader, "New notes (empty to keep)", a.out)
	if err != nil {
		return
	}
	if notes != "" {
		patch.Notes = &notes
	}

	doc, err := a.docs.Update(ctx, id, patch)
	if err != nil {
		fmt.Fprintf(a.out, "Could not update: %v\n", err)
		return
	}
	if doc == nil {
		fmt.Fprintln(a.out, "No such document.")
		return
	}
	fmt.Fprintln(a.out, "Updated.")
}

func (a *App) cmdDelete(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Document id", a.out)
	if err != nil || id == "" {
		return
	}
	if err := a.docs.Delete(ctx, id); err != nil {
		fmt.Fprintf(a.out, "Could not delete: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Deleted.")
}

func (a *App) cmdSettings(ctx context.Context) {
	cur := a.settings.Load(ctx)
	fmt.Fprintf(a.out, "biometrics: %v\nauto-lock:  %d ms\n", cur.BiometricsEnabled, cur.AutoLockTimeoutMs)

	var patch settings.Patch

	bioText, err := GetSimpleText(a.reader, "Biometrics (on/off, empty to keep)", a.out)
	if err != nil {
		return
	}
	switch strings.ToLower(bioText) {
	case "":
	case "on":
		v := true
		patch.BiometricsEnabled = &v
	case "off":
		v := false
		patch.BiometricsEnabled = &v
	default:
		fmt.Fprintln(a.out, "Expected on or off.")
		return
	}

	lockText, err := GetSimpleText(a.reader, "Auto-lock timeout in ms, 0 = immediate (empty to keep)", a.out)
	if err != nil {
		return
	}
	if lockText != "" {
		ms, err := strconv.ParseInt(lockText, 10, 64)
		if err != nil {
			fmt.Fprintln(a.out, "Expected a number.")
			return
		}
		patch.AutoLockTimeoutMs = &ms
	}

	updated, err := a.settings.Update(ctx, patch)
	if err != nil {
		fmt.Fprintf(a.out, "Could not update settings: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "biometrics: %v\nauto-lock:  %d ms\n", updated.BiometricsEnabled, updated.AutoLockTimeoutMs)
}

func (a *App) cmdUsage(ctx context.Context) {
	total, err := a.docs.TotalUsage()
	if err != nil {
		fmt.Fprintf(a.out, "Could not read usage: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Blob storage: %s\n", blobstore.FormatBytes(total))
}

func (a *App) cmdWipe(ctx context.Context) {
	confirm, err := GetSimpleText(a.reader, `This erases every document, image and setting. Type "WIPE" to confirm`, a.out)
	if err != nil || confirm != "WIPE" {
		fmt.Fprintln(a.out, "Cancelled.")
		return
	}
	if err := a.session.Wipe(ctx); err != nil {
		fmt.Fprintf(a.out, "Wipe finished with errors: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "All data erased.")
}

func (a *App) printDocuments(docs []models.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(a.out, "No documents.")
		return
	}
	for _, d := range docs {
		vendor := d.VendorName
		if vendor == "" {
			vendor = "(no vendor)"
		}
		fmt.Fprintf(a.out, "%s  %s  %10s %s  %-10s %s\n",
			d.ID, d.Date.Format(dateLayout),
			strconv.FormatFloat(d.Amount, 'f', -1, 64), d.Currency,
			d.Category, vendor)
	}
}

func categoryIDs() string {
	ids := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		ids = append(ids, c.ID)
	}
	return strings.Join(ids, ", ")
}
