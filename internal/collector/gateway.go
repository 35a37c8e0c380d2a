package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"StockSentinel/internal/model"
)

// ErrNoData is returned when a provider has no bars for a symbol.
var ErrNoData = errors.New("collector: no data")

// Gateway fetches daily bars in ascending order plus a fundamentals snapshot.
// Fundamentals may be partially or entirely empty but are never nil on success.
type Gateway interface {
	Fetch(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, *model.Fundamentals, error)
	Name() string
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
