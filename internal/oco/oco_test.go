package oco

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirphl/futures-cli/internal/exchange"
	"github.com/amirphl/futures-cli/internal/journal"
	"github.com/amirphl/futures-cli/internal/order"
	"github.com/amirphl/futures-cli/internal/validate"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name        string
		price       int64
		side        order.Side
		tp, sl      float64
		wantTP      string
		wantSL      string
		wantClosing order.Side
	}{
		{
			name:        "BUY 2 percent bracket at 50000",
			price:       50000,
			side:        order.SideBuy,
			tp:          2,
			sl:          2,
			wantTP:      "51000",
			wantSL:      "49000",
			wantClosing: order.SideSell,
		},
		{
			name:        "SELL 2 percent bracket at 50000",
			price:       50000,
			side:        order.SideSell,
			tp:          2,
			sl:          2,
			wantTP:      "49000",
			wantSL:      "51000",
			wantClosing: order.SideBuy,
		},
		{
			// 1000 * 1.0205 = 1020.5 lands on a midpoint and rounds to
			// the even neighbor, not away from zero.
			name:        "midpoint trigger rounds half to even",
			price:       1000,
			side:        order.SideBuy,
			tp:          2.05,
			sl:          2.05,
			wantTP:      "1020",
			wantSL:      "980",
			wantClosing: order.SideSell,
		},
		{
			name:        "asymmetric offsets",
			price:       3000,
			side:        order.SideBuy,
			tp:          5,
			sl:          1.5,
			wantTP:      "3150",
			wantSL:      "2955",
			wantClosing: order.SideSell,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Derive(decimal.NewFromInt(tt.price), tt.side, tt.tp, tt.sl)
			require.NoError(t, err)

			price := decimal.NewFromInt(tt.price)
			assert.True(t, decimal.RequireFromString(tt.wantTP).Equal(b.TakeProfit), "tp: got %s", b.TakeProfit)
			assert.True(t, decimal.RequireFromString(tt.wantSL).Equal(b.StopLoss), "sl: got %s", b.StopLoss)
			assert.Equal(t, tt.wantClosing, b.ClosingSide)

			// Directional invariant.
			if tt.side == order.SideBuy {
				assert.True(t, b.StopLoss.LessThan(price))
				assert.True(t, b.TakeProfit.GreaterThan(price))
			} else {
				assert.True(t, b.StopLoss.GreaterThan(price))
				assert.True(t, b.TakeProfit.LessThan(price))
			}
		})
	}
}

func TestDerive_DegenerateOffsets(t *testing.T) {
	price := decimal.NewFromInt(50000)

	tests := []struct {
		name   string
		side   order.Side
		tp, sl float64
	}{
		{"zero tp on BUY", order.SideBuy, 0, 2},
		{"zero sl on BUY", order.SideBuy, 2, 0},
		{"zero tp on SELL", order.SideSell, 0, 2},
		{"zero sl on SELL", order.SideSell, 2, 0},
		{"negative tp", order.SideBuy, -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Derive(price, tt.side, tt.tp, tt.sl)
			require.Error(t, err)

			var rej *validate.Rejection
			require.ErrorAs(t, err, &rej)
			assert.Equal(t, validate.ReasonBadTrigger, rej.Reason)
		})
	}
}

func TestDerive_BadSide(t *testing.T) {
	_, err := Derive(decimal.NewFromInt(50000), "HOLD", 2, 2)
	var rej *validate.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, validate.ReasonInvalidSide, rej.Reason)
}

func TestPlacer_Place(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	placer := NewPlacer(ex, &journal.MemoryRecorder{})
	qty := decimal.NewFromFloat(0.01)

	pair, err := placer.Place(context.Background(), "BTCUSDT", order.SideBuy, qty, 2, 2)
	require.NoError(t, err)
	require.NotNil(t, pair)

	// Two independent submissions, stop first.
	require.Len(t, ex.Orders, 2)

	sl := ex.Orders[0]
	assert.Equal(t, order.TypeStopMarket, sl.Type)
	assert.Equal(t, order.SideSell, sl.Side)
	assert.True(t, decimal.NewFromInt(49000).Equal(sl.StopPrice), "sl trigger: got %s", sl.StopPrice)
	assert.True(t, qty.Equal(sl.Quantity))

	tp := ex.Orders[1]
	assert.Equal(t, order.TypeTakeProfitMarket, tp.Type)
	assert.Equal(t, order.SideSell, tp.Side)
	assert.True(t, decimal.NewFromInt(51000).Equal(tp.StopPrice), "tp trigger: got %s", tp.StopPrice)

	assert.NotEqual(t, pair.StopLoss.OrderID, pair.TakeProfit.OrderID)
}

func TestPlacer_DegenerateRejectedBeforeSubmission(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	placer := NewPlacer(ex, &journal.MemoryRecorder{})

	_, err := placer.Place(context.Background(), "BTCUSDT", order.SideBuy, decimal.NewFromFloat(0.01), 0, 0)
	require.Error(t, err)
	assert.Empty(t, ex.Orders)
}

func TestPlacer_SubmissionFailure(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	ex.CreateErr = errors.New("rejected by venue")
	rec := &journal.MemoryRecorder{}
	placer := NewPlacer(ex, rec)

	_, err := placer.Place(context.Background(), "BTCUSDT", order.SideBuy, decimal.NewFromFloat(0.01), 2, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop loss")
	assert.Contains(t, rec.Descriptions(), "stop loss submission failed")
}

func TestPlacer_TakeProfitFailureLeavesStopOpen(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	ex.CreateErr = errors.New("rejected by venue")
	ex.CreateErrOnCall = 2
	rec := &journal.MemoryRecorder{}
	placer := NewPlacer(ex, rec)

	pair, err := placer.Place(context.Background(), "BTCUSDT", order.SideBuy, decimal.NewFromFloat(0.01), 2, 2)
	require.Error(t, err)
	assert.Nil(t, pair)

	// Only the stop loss made it through; the error names it so the
	// operator can cancel it by hand.
	require.Len(t, ex.Orders, 1)
	assert.Equal(t, order.TypeStopMarket, ex.Orders[0].Type)
	assert.Contains(t, err.Error(), "stop loss order 1001 remains open")
	assert.Contains(t, rec.Descriptions(), "take profit submission failed, stop loss remains open")
}

func TestPlacer_PriceSampleFailure(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	ex.PriceErr = errors.New("timeout")
	placer := NewPlacer(ex, &journal.MemoryRecorder{})

	_, err := placer.Place(context.Background(), "BTCUSDT", order.SideBuy, decimal.NewFromFloat(0.01), 2, 2)
	require.Error(t, err)
	assert.Empty(t, ex.Orders)
}
