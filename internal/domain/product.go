package domain

import "strconv"

// Product represents a catalog product as served by the upstream
// product API. The ID is stable across pagination pages.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand,omitempty"`
	Price       float64  `json:"price"`
	Stock       *int     `json:"stock,omitempty"`
	Rating      Rating   `json:"rating"`
	Image       string   `json:"image,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Rating holds the aggregate review score for a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Document is the indexable projection of a product: the ID plus the
// text-bearing fields the search index tokenizes. One document per
// product ID; re-indexing the same ID replaces the previous document.
type Document struct {
	ID          int
	Title       string
	Category    string
	Brand       string
	Description string
	Stock       string
}

// Document projects the product into its indexable form. Stock is
// rendered as text so quantity queries can match it.
func (p Product) Document() Document {
	doc := Document{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Brand:       p.Brand,
		Description: p.Description,
	}
	if p.Stock != nil {
		doc.Stock = strconv.Itoa(*p.Stock)
	}
	return doc
}

// Sort modes for result post-processing.
const (
	SortNone       = "none"
	SortAlphabetic = "alphabetic"
	SortPrice      = "price"
	SortRating     = "rating"
)

// ValidSortModes returns the list of valid sort modes.
func ValidSortModes() []string {
	return []string{SortNone, SortAlphabetic, SortPrice, SortRating}
}

// IsValidSortMode checks whether the given mode is a valid sort mode.
func IsValidSortMode(mode string) bool {
	for _, m := range ValidSortModes() {
		if m == mode {
			return true
		}
	}
	return false
}
