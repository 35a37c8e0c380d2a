package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.yaml"))
	holdings, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "portfolio.yaml")
	l, err := New(NewFileStore(path), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, l.AddStock("PTT.BK", "PTT Public Company", 100, 50, day))
	require.NoError(t, l.AddStock("PTT.BK", "", 100, 60, day.AddDate(0, 0, 1)))
	require.NoError(t, l.SellStock("PTT.BK", 50, 70, day.AddDate(0, 0, 2)))
	require.NoError(t, l.AddStock("ADVANC.BK", "Advanced Info Service", 10, 212.5, day))

	reloaded, err := New(NewFileStore(path), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, l.Transactions("PTT.BK"), reloaded.Transactions("PTT.BK"))
	assert.Equal(t, l.Transactions("ADVANC.BK"), reloaded.Transactions("ADVANC.BK"))
	assert.Equal(t, l.Holdings(), reloaded.Holdings())

	first, err := os.ReadFile(path)
	require.NoError(t, err)
	holdings, err := NewFileStore(path).Load()
	require.NoError(t, err)
	again, err := Encode(holdings)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(again))
}

func TestDecode_Schema(t *testing.T) {
	data := []byte(`
PTT.BK:
  name: PTT
  transactions:
    - date: "2024-05-02"
      shares: 100
      price: 50
      type: buy
    - date: "2024-05-04"
      shares: -50
      price: 70
      type: sell
`)
	holdings, err := Decode(data)
	require.NoError(t, err)
	h := holdings["PTT.BK"]
	assert.Equal(t, "PTT", h.Name)
	require.Len(t, h.Transactions, 2)
	assert.Equal(t, -50.0, h.Transactions[1].Shares)
	assert.Equal(t, "2024-05-04", h.Transactions[1].Date.Format(dateLayout))
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte("X:\n  name: x\n  transactions:\n    - {date: 2024/01/01, shares: 1, price: 1, type: buy}\n"))
	assert.Error(t, err)
	_, err = Decode([]byte("X:\n  name: x\n  transactions:\n    - {date: \"2024-01-01\", shares: 1, price: 1, type: gift}\n"))
	assert.Error(t, err)
	_, err = Decode([]byte("X:\n  name: x\n  transactions:\n    - {date: \"2024-01-01\", shares: 1, price: 0, type: buy}\n"))
	assert.Error(t, err)
}
