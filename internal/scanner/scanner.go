package scanner

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var nan = math.NaN()

// Mode names a scan.
type Mode string

const (
	ModeMomentum Mode = "momentum"
	ModeBreakout Mode = "breakout"
	ModeRebound  Mode = "rebound"
)

// Modes lists every scan mode.
var Modes = []Mode{ModeMomentum, ModeBreakout, ModeRebound}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeMomentum, ModeBreakout, ModeRebound:
		return m, nil
	}
	return "", fmt.Errorf("unknown scan mode %q", s)
}

// Candidate is one ranked scan hit. Score is the momentum percent, the
// distance to resistance, or the rebound score depending on Mode.
type Candidate struct {
	Symbol        string
	Name          string
	Mode          Mode
	Price         float64
	Score         float64
	Tag           string
	Reasons       []string
	Level         float64
	DistancePct   float64
	Target1       float64
	Target2       float64
	StopLoss      float64
	HoldingPeriod string
	RSI           float64
	VolumeRatio   float64
}

// Options tunes a Scanner.
type Options struct {
	Workers int
	Period  model.Period
}

// Scanner fans the indicator engine out over a Universe.
type Scanner struct {
	collector *collector.Collector
	universe  *Universe
	opts      Options
	log       zerolog.Logger
}

// New creates a Scanner. Per-symbol timeouts come from the collector.
func New(c *collector.Collector, u *Universe, opts Options, log zerolog.Logger) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = 5
	}
	if opts.Period == "" {
		opts.Period = model.Period3M
	}
	return &Scanner{
		collector: c,
		universe:  u,
		opts:      opts,
		log:       log.With().Str("component", "scanner").Logger(),
	}
}

// Universe returns the registry being scanned.
func (s *Scanner) Universe() *Universe { return s.universe }

// Momentum ranks by momentum percent, highest first.
func (s *Scanner) Momentum(ctx context.Context, limit int) []Candidate {
	out := s.scan(ctx, ModeMomentum, EvaluateMomentum)
	sortCandidates(out, func(a, b Candidate) bool { return a.Score > b.Score })
	return truncate(out, limit)
}

// Breakout ranks by distance to resistance, closest first.
func (s *Scanner) Breakout(ctx context.Context, limit int) []Candidate {
	out := s.scan(ctx, ModeBreakout, EvaluateBreakout)
	sortCandidates(out, func(a, b Candidate) bool { return a.DistancePct < b.DistancePct })
	return truncate(out, limit)
}

// Rebound ranks by rebound score, highest first.
func (s *Scanner) Rebound(ctx context.Context, limit int) []Candidate {
	out := s.scan(ctx, ModeRebound, EvaluateRebound)
	sortCandidates(out, func(a, b Candidate) bool { return a.Score > b.Score })
	return truncate(out, limit)
}

// Run dispatches to the scan named by mode.
func (s *Scanner) Run(ctx context.Context, mode Mode, limit int) ([]Candidate, error) {
	switch mode {
	case ModeMomentum:
		return s.Momentum(ctx, limit), nil
	case ModeBreakout:
		return s.Breakout(ctx, limit), nil
	case ModeRebound:
		return s.Rebound(ctx, limit), nil
	}
	return nil, fmt.Errorf("unknown scan mode %q", mode)
}

// scan evaluates every symbol with a bounded worker pool. Symbols that
// fail to fetch or compute are logged and omitted.
func (s *Scanner) scan(ctx context.Context, mode Mode, eval func(*model.IndicatorSeries) (Candidate, bool)) []Candidate {
	start := time.Now()
	symbols := s.universe.Symbols()

	var (
		mu     sync.Mutex
		out    []Candidate
		failed int
	)
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for _, sym := range symbols {
		if ctx.Err() != nil {
			break
		}
		sym := sym
		g.Go(func() error {
			snap, err := s.collector.Collect(ctx, sym, s.opts.Period)
			if err != nil {
				s.log.Warn().Str("symbol", sym).Str("mode", string(mode)).Err(err).Msg("symbol skipped")
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			c, ok := eval(snap.Series)
			if !ok {
				return nil
			}
			c.Symbol = sym
			c.Name = s.universe.Name(sym)
			mu.Lock()
			out = append(out, c)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info().
		Str("mode", string(mode)).
		Int("symbols", len(symbols)).
		Int("failed", failed).
		Int("candidates", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("scan complete")
	return out
}

// sortCandidates orders by less, breaking ties by symbol.
func sortCandidates(cs []Candidate, less func(a, b Candidate) bool) {
	sort.SliceStable(cs, func(i, j int) bool {
		if less(cs[i], cs[j]) {
			return true
		}
		if less(cs[j], cs[i]) {
			return false
		}
		return cs[i].Symbol < cs[j].Symbol
	})
}

func truncate(cs []Candidate, limit int) []Candidate {
	if limit > 0 && len(cs) > limit {
		return cs[:limit]
	}
	return cs
}
