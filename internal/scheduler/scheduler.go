package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/ledger"
	"StockSentinel/internal/model"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/scanner"
	"StockSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Deps are the components the scheduled tasks and commands drive.
type Deps struct {
	Scanner   *scanner.Scanner
	Collector *collector.Collector
	Ledger    *ledger.Ledger
	Prices    ledger.PriceLookup
	Notifier  notifier.Sender
	Recorder  recorder.Recorder
	Period    model.Period // analysis window for /analyze
	Limit     int          // candidates per digest
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron *cron.Cron
	Deps
	Ctx context.Context
	log zerolog.Logger
	now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, deps Deps, log zerolog.Logger) *Scheduler {
	if deps.Period == "" {
		deps.Period = model.Period1Y
	}
	if deps.Recorder == nil {
		deps.Recorder = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Deps: deps,
		Ctx:  ctx,
		log:  log.With().Str("component", "scheduler").Logger(),
		now:  time.Now,
	}
}

// RegisterAll registers the momentum, breakout and rebound digests.
func (s *Scheduler) RegisterAll(momentumCron, breakoutCron, reboundCron string) error {
	for _, job := range []struct {
		expr string
		mode scanner.Mode
	}{
		{momentumCron, scanner.ModeMomentum},
		{breakoutCron, scanner.ModeBreakout},
		{reboundCron, scanner.ModeRebound},
	} {
		mode := job.mode
		if _, err := s.Cron.AddFunc(job.expr, func() { s.scanTask(mode) }); err != nil {
			return fmt.Errorf("register %s task: %w", mode, err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunAllNow executes every digest immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunAllNow() {
	for _, mode := range scanner.Modes {
		s.scanTask(mode)
	}
}

func (s *Scheduler) scanTask(mode scanner.Mode) {
	s.log.Info().Str("mode", string(mode)).Msg("running scan task")
	s.trySend(s.runScan(s.Ctx, mode))
}

// runScan scans, records the result and returns the digest.
func (s *Scheduler) runScan(ctx context.Context, mode scanner.Mode) string {
	candidates, err := s.Scanner.Run(ctx, mode, s.Limit)
	if err != nil {
		s.log.Error().Err(err).Str("mode", string(mode)).Msg("scan failed")
		return fmt.Sprintf("❌ %s scan failed: %v", mode, err)
	}
	if id, err := s.Recorder.RecordScan(ctx, mode, candidates); err != nil {
		s.log.Error().Err(err).Str("mode", string(mode)).Msg("record scan")
	} else if id != "" {
		s.log.Debug().Str("run_id", id).Msg("scan recorded")
	}
	return notifier.FormatScan(mode, candidates, s.now())
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return help
	}
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/momentum", "/breakout", "/rebound":
		return s.runScan(ctx, scanner.Mode(strings.TrimPrefix(name, "/")))
	case "/portfolio":
		return notifier.FormatPortfolio(s.Ledger.Summary(ctx, s.Prices))
	case "/analyze":
		if len(fields) < 2 {
			return "Usage: /analyze SYMBOL"
		}
		return s.analyze(ctx, ledger.NormalizeSymbol(fields[1]))
	case "/history":
		return s.history(ctx)
	default:
		return help
	}
}

const help = "Available commands:\n" +
	"• /momentum, /breakout, /rebound\n" +
	"• /portfolio\n" +
	"• /analyze SYMBOL\n" +
	"• /history"

func (s *Scheduler) analyze(ctx context.Context, symbol string) string {
	snap, err := s.Collector.Collect(ctx, symbol, s.Period)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("analyze failed")
		if errors.Is(err, collector.ErrNoData) {
			return fmt.Sprintf("No data for %s.", symbol)
		}
		return fmt.Sprintf("❌ analysis of %s failed", symbol)
	}
	a := strategy.Analyze(symbol, snap.Series, snap.Fundamentals)
	if a == nil {
		return fmt.Sprintf("No data for %s.", symbol)
	}

	var pos *model.Position
	if p := s.Ledger.Position(symbol); p.Shares > 0 {
		pos = &p
		adv := a.Advise(p)
		if err := s.Recorder.RecordAdvice(ctx, &recorder.AdviceSnapshot{
			Symbol:      symbol,
			Price:       a.Price,
			Shares:      p.Shares,
			AverageCost: p.AverageCost,
			PnLPct:      strategy.UnrealizedPct(a.Price, p.AverageCost),
			Overall:     a.Overall(),
			Trend:       a.Trend.Kind,
			Dividend:    a.Dividend.YieldPct,
			Advice:      adv,
		}); err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("record advice")
		}
	}
	return notifier.FormatAnalysis(a, pos)
}

func (s *Scheduler) history(ctx context.Context) string {
	runs, err := s.Recorder.RecentScans(ctx, 10)
	if err != nil {
		s.log.Error().Err(err).Msg("load scan history")
		return "❌ history unavailable"
	}
	if len(runs) == 0 {
		return "No scans recorded."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent scans</b>\n\n")
	for _, r := range runs {
		fmt.Fprintf(&b, "%s %s: %d candidates", r.StartedAt.Format("01-02 15:04"), r.Mode, r.Candidates)
		if r.Top != "" {
			fmt.Fprintf(&b, ", top %s", r.Top)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
