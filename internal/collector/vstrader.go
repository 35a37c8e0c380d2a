package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"StockSentinel/internal/model"
)

// VsTraderGateway implements Gateway using the vstrader REST API.
type VsTraderGateway struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewVsTraderGateway creates a gateway with optional proxy support.
func NewVsTraderGateway(baseURL, apiKey, proxyURL string, timeout time.Duration) *VsTraderGateway {
	return &VsTraderGateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (g *VsTraderGateway) Name() string { return "vstrader" }

// vsBar is the expected JSON shape from the vstrader API.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// vsProfile carries the subset of fundamentals the API exposes.
type vsProfile struct {
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	PE            *float64 `json:"pe"`
	PB            *float64 `json:"pb"`
	DividendYield *float64 `json:"dividend_yield"`
	PayoutRatio   *float64 `json:"payout_ratio"`
	MarketCap     *float64 `json:"market_cap"`
}

// Fetch loads daily bars and, when the profile endpoint answers, fundamentals.
func (g *VsTraderGateway) Fetch(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, *model.Fundamentals, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", g.BaseURL, url.QueryEscape(symbol), period.TradingDays())
	var raw []vsBar
	if err := g.get(ctx, endpoint, &raw); err != nil {
		return nil, nil, fmt.Errorf("fetch bars: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	bars := make([]model.OHLCV, len(raw))
	for i, vb := range raw {
		bars[i] = model.OHLCV{
			Time:   time.Unix(vb.Timestamp, 0).UTC(),
			Open:   vb.Open,
			High:   vb.High,
			Low:    vb.Low,
			Close:  vb.Close,
			Volume: vb.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	f := &model.Fundamentals{}
	var p vsProfile
	if err := g.get(ctx, fmt.Sprintf("%s/api/v1/profile?symbol=%s", g.BaseURL, url.QueryEscape(symbol)), &p); err == nil {
		f = &model.Fundamentals{
			Name:          p.Name,
			Sector:        p.Sector,
			PE:            p.PE,
			PB:            p.PB,
			DividendYield: p.DividendYield,
			PayoutRatio:   p.PayoutRatio,
			MarketCap:     p.MarketCap,
		}
	}
	return bars, f, nil
}

func (g *VsTraderGateway) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if g.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.APIKey)
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
