package scanner

import (
	"sort"
	"strings"
	"sync"
)

// defaultSymbols is the SET large-cap list scanned out of the box.
var defaultSymbols = map[string]string{
	"ADVANC.BK": "ADVANC",
	"AOT.BK":    "AOT",
	"BDMS.BK":   "BDMS",
	"BH.BK":     "BH",
	"BTS.BK":    "BTS",
	"CPALL.BK":  "CPALL",
	"CPF.BK":    "CPF",
	"CRC.BK":    "CRC",
	"DTAC.BK":   "DTAC",
	"GULF.BK":   "GULF",
	"INTUCH.BK": "INTUCH",
	"IVL.BK":    "IVL",
	"KBANK.BK":  "KBANK",
	"KTB.BK":    "KTB",
	"PTT.BK":    "PTT",
	"PTTEP.BK":  "PTTEP",
	"SCB.BK":    "SCB",
	"SCC.BK":    "SCC",
	"TISCO.BK":  "TISCO",
	"TRUE.BK":   "TRUE",
}

// Universe is a caller-owned registry of scannable symbols. Each session
// holds its own; nothing is shared at package level.
type Universe struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewUniverse creates a registry seeded with symbol->name entries.
func NewUniverse(seed map[string]string) *Universe {
	u := &Universe{names: make(map[string]string, len(seed))}
	for sym, name := range seed {
		u.Register(sym, name)
	}
	return u
}

// DefaultUniverse returns a fresh registry of the default SET symbols.
func DefaultUniverse() *Universe { return NewUniverse(defaultSymbols) }

// Register adds symbol, reporting whether it was new. A known symbol
// only has its name updated when name is non-empty.
func (u *Universe) Register(symbol, name string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	_, known := u.names[symbol]
	if name == "" {
		if known {
			return false
		}
		name = strings.TrimSuffix(symbol, ".BK")
	}
	u.names[symbol] = name
	return !known
}

// Symbols returns every registered symbol in sorted order.
func (u *Universe) Symbols() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]string, 0, len(u.names))
	for sym := range u.names {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Name returns the display name of symbol, or symbol itself when unknown.
func (u *Universe) Name(symbol string) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if name, ok := u.names[symbol]; ok {
		return name
	}
	return symbol
}

// Len returns the number of registered symbols.
func (u *Universe) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.names)
}
