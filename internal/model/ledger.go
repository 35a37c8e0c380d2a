package model

import "time"

// TransactionType is the kind of a ledger transaction.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// Transaction is an immutable ledger entry. Shares is signed:
// positive for buys, negative for sells.
type Transaction struct {
	Date   time.Time
	Shares float64
	Price  float64
	Type   TransactionType
}

// Holding is the ledger record of one symbol.
type Holding struct {
	Name         string
	Transactions []Transaction
}

// Position is derived from a Holding on demand and never persisted.
type Position struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Shares      float64 `json:"shares"`
	AverageCost float64 `json:"average_cost"`
}
