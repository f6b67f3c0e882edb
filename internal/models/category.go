package models

// Category is a fixed lookup entry for document classification. The set is
// static and not user-editable.
type Category struct {
	ID     string
	NameEN string
	NameFR string
	Icon   string
}

// Categories is the fixed category set, in display order.
var Categories = []Category{
	{ID: "supplies", NameEN: "Supplies", NameFR: "Fournitures", Icon: "package-variant"},
	{ID: "transport", NameEN: "Transport", NameFR: "Transport", Icon: "truck"},
	{ID: "rent", NameEN: "Rent", NameFR: "Loyer", Icon: "home"},
	{ID: "food", NameEN: "Food", NameFR: "Repas", Icon: "silverware-fork-knife"},
	{ID: "utilities", NameEN: "Utilities", NameFR: "Services", Icon: "lightning-bolt"},
	{ID: "other", NameEN: "Other", NameFR: "Autre", Icon: "dots-horizontal"},
}

// CategoryByID returns the category with the given id.
func CategoryByID(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// IsValidCategory reports whether id names a known category.
func IsValidCategory(id string) bool {
	_, ok := CategoryByID(id)
	return ok
}
