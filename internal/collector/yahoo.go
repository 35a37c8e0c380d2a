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

	"github.com/rs/zerolog"
)

const (
	DefaultYahooChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	DefaultYahooSummaryURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"
)

const summaryModules = "summaryDetail,defaultKeyStatistics,financialData,assetProfile,price"

// YahooGateway implements Gateway using the Yahoo Finance public API.
type YahooGateway struct {
	Client     *http.Client
	ChartURL   string
	SummaryURL string
	log        zerolog.Logger
}

// NewYahooGateway creates a Yahoo gateway. Empty URLs use the public endpoints.
func NewYahooGateway(chartURL, summaryURL, proxyURL string, timeout time.Duration, log zerolog.Logger) *YahooGateway {
	if chartURL == "" {
		chartURL = DefaultYahooChartURL
	}
	if summaryURL == "" {
		summaryURL = DefaultYahooSummaryURL
	}
	return &YahooGateway{
		Client:     newHTTPClient(proxyURL, timeout),
		ChartURL:   strings.TrimRight(chartURL, "/"),
		SummaryURL: strings.TrimRight(summaryURL, "/"),
		log:        log.With().Str("component", "yahoo").Logger(),
	}
}

func (g *YahooGateway) Name() string { return "yahoo" }

// Fetch returns daily bars for period. A failed fundamentals lookup is
// logged and yields an empty snapshot rather than failing the fetch.
func (g *YahooGateway) Fetch(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, *model.Fundamentals, error) {
	bars, name, err := g.fetchChart(ctx, symbol, period)
	if err != nil {
		return nil, nil, err
	}
	f, err := g.fetchSummary(ctx, symbol)
	if err != nil {
		g.log.Warn().Str("symbol", symbol).Err(err).Msg("fundamentals unavailable")
		f = &model.Fundamentals{}
	}
	if f.Name == "" {
		f.Name = name
	}
	return bars, f, nil
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

func (g *YahooGateway) fetchChart(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, string, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=%s", g.ChartURL, url.PathEscape(symbol), period)

	var chart yahooChart
	if err := g.getJSON(ctx, u, &chart); err != nil {
		return nil, "", err
	}
	if chart.Chart.Error != nil {
		return nil, "", fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if c == 0 {
			continue // null bars on holidays
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}
	if len(bars) == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}
	return bars, name, nil
}

// rawValue is Yahoo's {"raw": 1.2, "fmt": "1.20"} number wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE       rawValue `json:"trailingPE"`
				DividendYield    rawValue `json:"dividendYield"`
				PayoutRatio      rawValue `json:"payoutRatio"`
				MarketCap        rawValue `json:"marketCap"`
				Beta             rawValue `json:"beta"`
				FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				ReturnOnEquity    rawValue `json:"returnOnEquity"`
				ProfitMargins     rawValue `json:"profitMargins"`
				DebtToEquity      rawValue `json:"debtToEquity"`
				TargetMeanPrice   rawValue `json:"targetMeanPrice"`
				RecommendationKey string   `json:"recommendationKey"`
			} `json:"financialData"`
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
			Price struct {
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
			} `json:"price"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// fetchSummary maps Yahoo's quoteSummary modules onto Fundamentals.
func (g *YahooGateway) fetchSummary(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	u := fmt.Sprintf("%s/%s?modules=%s", g.SummaryURL, url.PathEscape(symbol), summaryModules)

	var s yahooSummary
	if err := g.getJSON(ctx, u, &s); err != nil {
		return nil, err
	}
	if s.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", s.QuoteSummary.Error.Description)
	}
	if len(s.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: no fundamentals for %s", ErrNoData, symbol)
	}

	r := s.QuoteSummary.Result[0]
	f := &model.Fundamentals{
		Name:              r.Price.LongName,
		Sector:            r.AssetProfile.Sector,
		PE:                r.SummaryDetail.TrailingPE.Raw,
		PB:                r.DefaultKeyStatistics.PriceToBook.Raw,
		ROE:               r.FinancialData.ReturnOnEquity.Raw,
		ProfitMargin:      r.FinancialData.ProfitMargins.Raw,
		DebtToEquity:      r.FinancialData.DebtToEquity.Raw,
		DividendYield:     r.SummaryDetail.DividendYield.Raw,
		PayoutRatio:       r.SummaryDetail.PayoutRatio.Raw,
		MarketCap:         r.SummaryDetail.MarketCap.Raw,
		Beta:              r.SummaryDetail.Beta.Raw,
		High52w:           r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		Low52w:            r.SummaryDetail.FiftyTwoWeekLow.Raw,
		TargetPrice:       r.FinancialData.TargetMeanPrice.Raw,
		RecommendationKey: r.FinancialData.RecommendationKey,
	}
	if f.Name == "" {
		f.Name = r.Price.ShortName
	}
	return f, nil
}

func (g *YahooGateway) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: status 404", ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
