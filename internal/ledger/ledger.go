package ledger

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"StockSentinel/internal/model"

	"github.com/rs/zerolog"
)

var (
	ErrUnknownSymbol      = errors.New("ledger: unknown symbol")
	ErrInsufficientShares = errors.New("ledger: insufficient shares")
	ErrInvalidInput       = errors.New("ledger: invalid input")
)

// shareEpsilon absorbs float drift when comparing share counts.
const shareEpsilon = 1e-9

// Ledger is the append-only transaction log per symbol. Mutations are
// serialized so the held-shares check and the append of a sell are atomic.
type Ledger struct {
	mu       sync.Mutex
	holdings map[string]*model.Holding
	store    Store
	log      zerolog.Logger
}

// New loads the ledger from store. A nil store keeps the ledger in memory.
func New(store Store, log zerolog.Logger) (*Ledger, error) {
	l := &Ledger{
		holdings: make(map[string]*model.Holding),
		store:    store,
		log:      log.With().Str("component", "ledger").Logger(),
	}
	if store == nil {
		return l, nil
	}
	loaded, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	for sym, h := range loaded {
		h := h
		l.holdings[sym] = &h
	}
	l.log.Info().Int("symbols", len(l.holdings)).Msg("ledger loaded")
	return l, nil
}

// NormalizeSymbol is the canonical key form of a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// AddStock appends a buy. The symbol's record is created on first use.
func (l *Ledger) AddStock(symbol, name string, shares, price float64, date time.Time) error {
	symbol = NormalizeSymbol(symbol)
	if err := validate(symbol, shares, price); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	h, existed := l.holdings[symbol]
	if !existed {
		if name == "" {
			name = symbol
		}
		h = &model.Holding{Name: name}
		l.holdings[symbol] = h
	}
	h.Transactions = append(h.Transactions, model.Transaction{
		Date:   dateOnly(date),
		Shares: shares,
		Price:  price,
		Type:   model.TransactionBuy,
	})

	if err := l.persist(); err != nil {
		h.Transactions = h.Transactions[:len(h.Transactions)-1]
		if !existed {
			delete(l.holdings, symbol)
		}
		return err
	}
	l.log.Info().Str("symbol", symbol).Float64("shares", shares).Float64("price", price).Msg("buy recorded")
	return nil
}

// SellStock appends a sell. It fails without mutating the ledger when the
// symbol is unknown or shares exceeds the quantity held.
func (l *Ledger) SellStock(symbol string, shares, price float64, date time.Time) error {
	symbol = NormalizeSymbol(symbol)
	if err := validate(symbol, shares, price); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok := l.holdings[symbol]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	held := heldShares(h.Transactions)
	if shares > held+shareEpsilon {
		return fmt.Errorf("%w: %s holds %g, sell %g", ErrInsufficientShares, symbol, held, shares)
	}

	h.Transactions = append(h.Transactions, model.Transaction{
		Date:   dateOnly(date),
		Shares: -shares,
		Price:  price,
		Type:   model.TransactionSell,
	})
	if err := l.persist(); err != nil {
		h.Transactions = h.Transactions[:len(h.Transactions)-1]
		return err
	}
	l.log.Info().Str("symbol", symbol).Float64("shares", shares).Float64("price", price).Msg("sell recorded")
	return nil
}

// CurrentShares is the signed sum of quantities, floored at 0. Unknown symbols hold 0.
func (l *Ledger) CurrentShares(symbol string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.holdings[NormalizeSymbol(symbol)]
	if !ok {
		return 0
	}
	return heldShares(h.Transactions)
}

// AverageCost is the weighted average price over buys only; 0 without buys.
func (l *Ledger) AverageCost(symbol string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.holdings[NormalizeSymbol(symbol)]
	if !ok {
		return 0
	}
	return averageCost(h.Transactions)
}

// Position derives the current position of symbol.
func (l *Ledger) Position(symbol string) model.Position {
	symbol = NormalizeSymbol(symbol)
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.holdings[symbol]
	if !ok {
		return model.Position{Symbol: symbol}
	}
	return position(symbol, h)
}

// Holdings lists every symbol with shares held, sorted by symbol.
func (l *Ledger) Holdings() []model.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.Position, 0, len(l.holdings))
	for sym, h := range l.holdings {
		p := position(sym, h)
		if p.Shares > 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Transactions returns a copy of symbol's transactions in recorded order.
func (l *Ledger) Transactions(symbol string) []model.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.holdings[NormalizeSymbol(symbol)]
	if !ok {
		return nil
	}
	return append([]model.Transaction(nil), h.Transactions...)
}

// Symbols lists every symbol with a record, including fully sold ones.
func (l *Ledger) Symbols() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.holdings))
	for sym := range l.holdings {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

func (l *Ledger) persist() error {
	if l.store == nil {
		return nil
	}
	snapshot := make(map[string]model.Holding, len(l.holdings))
	for sym, h := range l.holdings {
		snapshot[sym] = model.Holding{
			Name:         h.Name,
			Transactions: append([]model.Transaction(nil), h.Transactions...),
		}
	}
	if err := l.store.Save(snapshot); err != nil {
		l.log.Error().Err(err).Msg("failed to save ledger")
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func position(symbol string, h *model.Holding) model.Position {
	return model.Position{
		Symbol:      symbol,
		Name:        h.Name,
		Shares:      heldShares(h.Transactions),
		AverageCost: averageCost(h.Transactions),
	}
}

func heldShares(txs []model.Transaction) float64 {
	var sum float64
	for _, t := range txs {
		sum += t.Shares
	}
	return math.Max(sum, 0)
}

func averageCost(txs []model.Transaction) float64 {
	var qty, cost float64
	for _, t := range txs {
		if t.Type != model.TransactionBuy || t.Shares <= 0 {
			continue
		}
		qty += t.Shares
		cost += t.Shares * t.Price
	}
	if qty == 0 {
		return 0
	}
	return cost / qty
}

func validate(symbol string, shares, price float64) error {
	switch {
	case symbol == "":
		return fmt.Errorf("%w: empty symbol", ErrInvalidInput)
	case !model.Valid(shares) || shares <= 0:
		return fmt.Errorf("%w: shares must be positive, got %v", ErrInvalidInput, shares)
	case !model.Valid(price) || price <= 0:
		return fmt.Errorf("%w: price must be positive, got %v", ErrInvalidInput, price)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
