package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockSentinel/internal/model"
	"StockSentinel/internal/scanner"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the dashboard read while scans write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			mode        TEXT NOT NULL,
			candidates  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_runs_ts ON scan_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS scan_candidates (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL REFERENCES scan_runs(id),
			ranking        INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			price          REAL,
			score          REAL,
			tag            TEXT,
			level          REAL,
			distance_pct   REAL,
			target1        REAL,
			target2        REAL,
			stop_loss      REAL,
			holding_period TEXT,
			rsi            REAL,
			volume_ratio   REAL,
			reasons        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_candidates_run ON scan_candidates(run_id)`,

		`CREATE TABLE IF NOT EXISTS advice_snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			price        REAL,
			shares       REAL,
			average_cost REAL,
			pnl_pct      REAL,
			overall      TEXT,
			trend        TEXT,
			dividend     REAL,
			action       TEXT,
			title        TEXT,
			detail       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_advice_symbol_ts ON advice_snapshots(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordScan stores a scan run and its ranked candidates in one transaction.
func (r *SQLiteRecorder) RecordScan(ctx context.Context, mode scanner.Mode, candidates []scanner.Candidate) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scan_runs (id, timestamp, mode, candidates) VALUES (?,?,?,?)`,
		id, time.Now().Unix(), string(mode), len(candidates),
	); err != nil {
		return "", fmt.Errorf("insert scan run: %w", err)
	}
	for i, c := range candidates {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scan_candidates
			(run_id, ranking, symbol, price, score, tag, level, distance_pct,
			 target1, target2, stop_loss, holding_period, rsi, volume_ratio, reasons)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			id, i+1, c.Symbol, nullFloat(c.Price), nullFloat(c.Score), c.Tag, nullFloat(c.Level), nullFloat(c.DistancePct),
			nullFloat(c.Target1), nullFloat(c.Target2), nullFloat(c.StopLoss), c.HoldingPeriod,
			nullFloat(c.RSI), nullFloat(c.VolumeRatio), strings.Join(c.Reasons, "; "),
		); err != nil {
			return "", fmt.Errorf("insert candidate %s: %w", c.Symbol, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func (r *SQLiteRecorder) RecordAdvice(ctx context.Context, snap *AdviceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO advice_snapshots
		(timestamp, symbol, price, shares, average_cost, pnl_pct, overall, trend, dividend, action, title, detail)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Symbol, nullFloat(snap.Price), snap.Shares, nullFloat(snap.AverageCost), nullFloat(snap.PnLPct),
		string(snap.Overall), string(snap.Trend), nullFloat(snap.Dividend),
		string(snap.Advice.Action), snap.Advice.Title, snap.Advice.Detail,
	)
	return err
}

// RecentScans lists the latest runs, newest first, with the top-ranked symbol.
func (r *SQLiteRecorder) RecentScans(ctx context.Context, limit int) ([]ScanRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `SELECT r.id, r.timestamp, r.mode, r.candidates,
			COALESCE((SELECT symbol FROM scan_candidates c WHERE c.run_id = r.id AND c.ranking = 1), '')
		FROM scan_runs r ORDER BY r.timestamp DESC, r.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScanRun
	for rows.Next() {
		var (
			run ScanRun
			ts  int64
		)
		if err := rows.Scan(&run.ID, &ts, &run.Mode, &run.Candidates, &run.Top); err != nil {
			return nil, err
		}
		run.StartedAt = time.Unix(ts, 0)
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

// nullFloat maps undefined values to NULL.
func nullFloat(v float64) any {
	if !model.Valid(v) {
		return nil
	}
	return v
}
