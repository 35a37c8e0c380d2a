package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"StockSentinel/internal/model"

	"gopkg.in/yaml.v3"
)

// Store persists the ledger, one record per symbol.
type Store interface {
	Load() (map[string]model.Holding, error)
	Save(map[string]model.Holding) error
}

const dateLayout = "2006-01-02"

type fileRecord struct {
	Name         string            `yaml:"name"`
	Transactions []fileTransaction `yaml:"transactions"`
}

type fileTransaction struct {
	Date   string  `yaml:"date"`
	Shares float64 `yaml:"shares"`
	Price  float64 `yaml:"price"`
	Type   string  `yaml:"type"`
}

// FileStore keeps the ledger in a YAML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the ledger file. A missing file is an empty ledger.
func (s *FileStore) Load() (map[string]model.Holding, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.Holding{}, nil
		}
		return nil, err
	}
	return Decode(data)
}

// Save writes the ledger through a temp file and rename.
func (s *FileStore) Save(holdings map[string]model.Holding) error {
	data, err := Encode(holdings)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Encode renders holdings in the ledger file schema.
func Encode(holdings map[string]model.Holding) ([]byte, error) {
	records := make(map[string]fileRecord, len(holdings))
	for sym, h := range holdings {
		rec := fileRecord{Name: h.Name, Transactions: make([]fileTransaction, 0, len(h.Transactions))}
		for _, t := range h.Transactions {
			rec.Transactions = append(rec.Transactions, fileTransaction{
				Date:   t.Date.Format(dateLayout),
				Shares: t.Shares,
				Price:  t.Price,
				Type:   string(t.Type),
			})
		}
		records[sym] = rec
	}
	return yaml.Marshal(records)
}

// Decode parses the ledger file schema.
func Decode(data []byte) (map[string]model.Holding, error) {
	var records map[string]fileRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}

	out := make(map[string]model.Holding, len(records))
	for sym, rec := range records {
		h := model.Holding{Name: rec.Name, Transactions: make([]model.Transaction, 0, len(rec.Transactions))}
		for i, ft := range rec.Transactions {
			date, err := time.Parse(dateLayout, ft.Date)
			if err != nil {
				return nil, fmt.Errorf("%s transaction %d: %w", sym, i, err)
			}
			typ := model.TransactionType(ft.Type)
			if typ != model.TransactionBuy && typ != model.TransactionSell {
				return nil, fmt.Errorf("%s transaction %d: unknown type %q", sym, i, ft.Type)
			}
			if ft.Price <= 0 {
				return nil, fmt.Errorf("%s transaction %d: price must be positive", sym, i)
			}
			h.Transactions = append(h.Transactions, model.Transaction{
				Date:   date,
				Shares: ft.Shares,
				Price:  ft.Price,
				Type:   typ,
			})
		}
		out[sym] = h
	}
	return out, nil
}
