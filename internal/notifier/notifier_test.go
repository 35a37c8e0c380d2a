package notifier

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StockSentinel/internal/ledger"
	"StockSentinel/internal/model"
	"StockSentinel/internal/scanner"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_PostsHTMLMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", srv.URL, "", zerolog.Nop())
	require.NoError(t, tn.Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("T", "1", srv.URL, "", zerolog.Nop())
	tn.Backoff = time.Millisecond
	require.NoError(t, tn.SendWithRetry(context.Background(), "x", 3))
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(-100)
	err := tn.SendWithRetry(context.Background(), "x", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts failed")
}

func TestSendWithRetry_StopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("T", "1", srv.URL, "", zerolog.Nop())
	tn.Backoff = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tn.SendWithRetry(ctx, "x", 5), context.DeadlineExceeded)
}

func TestStartPolling_RepliesToCommands(t *testing.T) {
	replies := make(chan string, 1)
	var polled atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botT/getUpdates":
			if polled.Add(1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /portfolio ","chat":{"id":1}}}]}`))
				return
			}
			assert.Equal(t, "8", r.URL.Query().Get("offset"))
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case "/botT/sendMessage":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			replies <- body["text"]
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("T", "1", srv.URL, "", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(_ context.Context, cmd string) string { return "got " + cmd })
		close(done)
	}()

	select {
	case r := <-replies:
		assert.Equal(t, "got /portfolio", r)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	<-done
}

func TestFormatScan(t *testing.T) {
	at := time.Date(2024, 6, 28, 17, 0, 0, 0, time.UTC)
	out := FormatScan(scanner.ModeMomentum, []scanner.Candidate{{
		Symbol: "PTT.BK", Name: "P&T", Price: 34.5, Score: 6.2, RSI: math.NaN(),
		VolumeRatio: 1.8, HoldingPeriod: "3-5 days", Reasons: []string{"RSI < 70"},
	}}, at)

	assert.Contains(t, out, "Momentum scan")
	assert.Contains(t, out, "2024-06-28 17:00")
	assert.Contains(t, out, "<b>PTT.BK</b> P&amp;T @ 34.50")
	assert.Contains(t, out, "RSI n/a")
	assert.Contains(t, out, "RSI &lt; 70")

	assert.Contains(t, FormatScan(scanner.ModeRebound, nil, at), "No candidates")
}

func TestFormatPortfolio(t *testing.T) {
	out := FormatPortfolio(ledger.Summary{
		Lines: []ledger.Line{
			{Symbol: "AOT.BK", Shares: 100, Price: 66, AverageCost: 60, PnL: 600, PnLPct: 10},
			{Symbol: "SCB.BK", Shares: 50, Price: 90, AverageCost: 100, PnL: -500, PnLPct: -10},
		},
		Unpriced:    []string{"XYZ.BK"},
		TotalValue:  11100,
		TotalCost:   11000,
		TotalPnL:    100,
		TotalPnLPct: 0.91,
	})
	assert.Contains(t, out, "🟢 <b>AOT.BK</b> 100 @ 66.00 (cost 60.00) +10.00%")
	assert.Contains(t, out, "🔴 <b>SCB.BK</b>")
	assert.Contains(t, out, "unpriced: XYZ.BK")
	assert.Contains(t, out, "+100.00 (+0.91%)")

	assert.Contains(t, FormatPortfolio(ledger.Summary{}), "No holdings")
}

func TestFormatAdvice_Escapes(t *testing.T) {
	out := FormatAdvice(model.Advice{Action: model.ActionHold, Title: "Hold", Detail: "gain < 15%"})
	assert.Equal(t, "💡 <b>Hold</b>\ngain &lt; 15%", out)
}
