// Package market holds the discoverable asset catalogue and the quote feeds
// that price tracked positions.
package market

import (
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/shopspring/decimal"
)

// Listing is an asset the user can discover and start tracking.
type Listing struct {
	Ticker string           `json:"ticker"`
	Name   string           `json:"name"`
	Type   models.AssetType `json:"type"`
	Price  decimal.Decimal  `json:"price"`
	Change decimal.Decimal  `json:"change"`
	Sector string           `json:"sector"`
}

// Catalog is an immutable list of listings.
type Catalog struct {
	listings []Listing
}

func NewCatalog(listings []Listing) *Catalog {
	return &Catalog{listings: append([]Listing(nil), listings...)}
}

// All returns every listing in catalogue order.
func (c *Catalog) All() []Listing {
	return append([]Listing(nil), c.listings...)
}

// Lookup finds a listing by ticker, case-insensitively.
func (c *Catalog) Lookup(ticker string) (Listing, bool) {
	ticker = strings.TrimSpace(ticker)
	for _, l := range c.listings {
		if strings.EqualFold(l.Ticker, ticker) {
			return l, true
		}
	}
	return Listing{}, false
}

// Search matches term against name or ticker, case-insensitively. An empty
// term matches everything; an empty assetType matches every type.
func (c *Catalog) Search(term string, assetType models.AssetType) []Listing {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []Listing
	for _, l := range c.listings {
		if assetType != "" && l.Type != assetType {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(l.Name), term) &&
			!strings.Contains(strings.ToLower(l.Ticker), term) {
			continue
		}
		out = append(out, l)
	}
	return out
}
