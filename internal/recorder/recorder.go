package recorder

import (
	"context"
	"time"

	"StockSentinel/internal/model"
	"StockSentinel/internal/scanner"
)

// ScanRun is a stored scan header.
type ScanRun struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	Candidates int       `json:"candidates"`
	Top        string    `json:"top,omitempty"`
}

// AdviceSnapshot records one recommendation with the inputs that produced it.
type AdviceSnapshot struct {
	Symbol      string
	Price       float64
	Shares      float64
	AverageCost float64
	PnLPct      float64
	Overall     model.SignalKind
	Trend       model.TrendKind
	Dividend    float64
	Advice      model.Advice
}

// Recorder persists scan and advice history.
type Recorder interface {
	RecordScan(ctx context.Context, mode scanner.Mode, candidates []scanner.Candidate) (string, error)
	RecordAdvice(ctx context.Context, snap *AdviceSnapshot) error
	RecentScans(ctx context.Context, limit int) ([]ScanRun, error)
	Close() error
}
