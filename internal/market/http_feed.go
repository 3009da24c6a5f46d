package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// HTTPFeed fetches a JSON quote document per ticker and extracts the price
// with a JSONPath expression. The URL template's {ticker} placeholder is
// replaced with the escaped ticker.
type HTTPFeed struct {
	urlTemplate string
	pricePath   string
	client      *http.Client
}

func NewHTTPFeed(urlTemplate, pricePath string, timeout time.Duration) *HTTPFeed {
	return &HTTPFeed{
		urlTemplate: urlTemplate,
		pricePath:   pricePath,
		client:      &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFeed) Quote(ctx context.Context, ticker string) (decimal.Decimal, error) {
	addr := strings.ReplaceAll(f.urlTemplate, "{ticker}", url.QueryEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build quote request for %s: %w", ticker, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote request for %s failed: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote request for %s returned %d", ticker, resp.StatusCode)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode quote for %s: %w", ticker, err)
	}

	jval, err := jsonpath.Get(f.pricePath, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price path %q not found for %s: %w", f.pricePath, ticker, err)
	}
	// jsonpath may wrap a single match in a list
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return decimal.Zero, fmt.Errorf("%w for %s", ErrNoQuote, ticker)
		}
		jval = jlist[0]
	}

	price, err := toDecimal(jval)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad price for %s: %w", ticker, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w for %s: price %s", ErrNoQuote, ticker, price)
	}
	return price, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		// some feeds use a decimal comma or thousands spacing; a lone comma
		// followed by exactly three digits groups thousands
		s := strings.ReplaceAll(strings.TrimSpace(x), " ", "")
		if i := strings.Index(s, ","); strings.Count(s, ",") == 1 && !strings.Contains(s, ".") && len(s)-i-1 != 3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
		return decimal.NewFromString(s)
	default:
		return decimal.Zero, fmt.Errorf("unexpected value %v (%T)", v, v)
	}
}
