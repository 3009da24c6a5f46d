package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/cache"
	"github.com/shopspring/decimal"
)

// ErrNoQuote is returned when a feed has no price for the ticker.
var ErrNoQuote = errors.New("no quote")

// Feed supplies current prices.
type Feed interface {
	Quote(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// CatalogFeed quotes the static catalogue prices.
type CatalogFeed struct {
	catalog *Catalog
}

func NewCatalogFeed(c *Catalog) *CatalogFeed {
	return &CatalogFeed{catalog: c}
}

func (f *CatalogFeed) Quote(_ context.Context, ticker string) (decimal.Decimal, error) {
	l, ok := f.catalog.Lookup(ticker)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for %s", ErrNoQuote, ticker)
	}
	return l.Price, nil
}

// CachedFeed remembers successful quotes for the cache TTL. Failures are not cached.
type CachedFeed struct {
	next  Feed
	cache *cache.TTLCache[decimal.Decimal]
}

func NewCachedFeed(next Feed, c *cache.TTLCache[decimal.Decimal]) *CachedFeed {
	return &CachedFeed{next: next, cache: c}
}

func (f *CachedFeed) Quote(ctx context.Context, ticker string) (decimal.Decimal, error) {
	key := "quote:" + strings.ToUpper(strings.TrimSpace(ticker))
	if v, ok := f.cache.Get(key); ok {
		return v, nil
	}
	v, err := f.next.Quote(ctx, ticker)
	if err != nil {
		return decimal.Zero, err
	}
	f.cache.Set(key, v)
	return v, nil
}

// Invalidate drops every cached quote.
func (f *CachedFeed) Invalidate() {
	f.cache.InvalidatePrefix("quote:")
}
