// Package suggest builds the search-suggestion index over the catalog and
// ranks typeahead queries against it.
package suggest

import (
	"encoding/json"
	"strings"

	"dressmarket/internal/domain"
)

// Item types.
const (
	TypeShop  = "shop"
	TypeDress = "dress"
)

// Item is one searchable projection of a shop or dress field. Query, when
// set, overrides Text as the search string issued on selection: picking a
// Brand suggestion should search the brand, not the composite display text.
type Item struct {
	ID       string `json:"id" msgpack:"id"`
	Text     string `json:"text" msgpack:"t"`
	Type     string `json:"type" msgpack:"y"`
	Category string `json:"category" msgpack:"c"`
	Query    string `json:"searchQuery,omitempty" msgpack:"q,omitempty"`
}

// SearchQuery returns the string a selection of this item should search for.
func (it Item) SearchQuery() string {
	if it.Query != "" {
		return it.Query
	}
	return it.Text
}

// BuildIndex flattens shops and dresses into the suggestion item list.
// A shop contributes its name, business name, each specialty, and location;
// a dress contributes its composite display name plus brand, category, color,
// and material. Empty optional fields are skipped, and duplicate
// (type, text) pairs are dropped keeping the first occurrence.
func BuildIndex(shops []domain.Shop, dresses []domain.DressListing) []Item {
	items := make([]Item, 0, len(shops)*3+len(dresses)*4)
	seen := make(map[string]struct{})

	add := func(it Item) {
		it.Text = strings.TrimSpace(it.Text)
		if it.Text == "" {
			return
		}
		key := it.Type + "\x00" + strings.ToLower(it.Text)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		items = append(items, it)
	}

	for _, s := range shops {
		add(Item{ID: s.ID, Text: s.Name, Type: TypeShop, Category: "Shop"})
		add(Item{ID: s.ID, Text: s.BusinessName, Type: TypeShop, Category: "Business"})
		for _, sp := range decodeList(s.SpecialtiesJSON) {
			add(Item{ID: s.ID, Text: sp, Type: TypeShop, Category: "Specialty"})
		}
		add(Item{ID: s.ID, Text: s.Location, Type: TypeShop, Category: "Location"})
	}

	for _, d := range dresses {
		display := d.Name
		if d.ShopName != "" {
			display = d.Name + " - " + d.ShopName
		}
		add(Item{ID: d.ID, Text: display, Type: TypeDress, Category: "Dress", Query: d.Name})
		add(Item{ID: d.ID, Text: d.Brand, Type: TypeDress, Category: "Brand", Query: d.Brand})
		add(Item{ID: d.ID, Text: d.Category, Type: TypeDress, Category: "Category", Query: d.Category})
		add(Item{ID: d.ID, Text: d.Color, Type: TypeDress, Category: "Color", Query: d.Color})
		add(Item{ID: d.ID, Text: d.Material, Type: TypeDress, Category: "Material", Query: d.Material})
	}

	return items
}

func decodeList(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
