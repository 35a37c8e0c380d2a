package recorder

import (
	"context"

	"StockSentinel/internal/scanner"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(context.Context, scanner.Mode, []scanner.Candidate) (string, error) {
	return "", nil
}

func (n *NoopRecorder) RecordAdvice(context.Context, *AdviceSnapshot) error { return nil }

func (n *NoopRecorder) RecentScans(context.Context, int) ([]ScanRun, error) { return nil, nil }

func (n *NoopRecorder) Close() error { return nil }
