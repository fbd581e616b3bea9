package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirphl/futures-cli/internal/exchange"
	"github.com/amirphl/futures-cli/internal/journal"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		balance   float64
		leverage  int
		requested string
		want      string
		adjusted  bool
		bound     string
	}{
		{
			// 100 USDT minimum at 50000 -> 0.002
			name:      "below minimum raised",
			price:     50000,
			balance:   1000,
			leverage:  20,
			requested: "0.0001",
			want:      "0.002",
			adjusted:  true,
			bound:     "min",
		},
		{
			// 1000 * 20 * 0.8 / 50000 = 0.32
			name:      "above maximum lowered",
			price:     50000,
			balance:   1000,
			leverage:  20,
			requested: "1",
			want:      "0.32",
			adjusted:  true,
			bound:     "max",
		},
		{
			name:      "within bounds untouched",
			price:     50000,
			balance:   1000,
			leverage:  20,
			requested: "0.01",
			want:      "0.01",
			adjusted:  false,
		},
		{
			// exactly the minimum passes through
			name:      "at minimum untouched",
			price:     50000,
			balance:   1000,
			leverage:  20,
			requested: "0.002",
			want:      "0.002",
			adjusted:  false,
		},
		{
			// 200 * 2 * 0.8 / 20000 = 0.016, below the 0.005 min bound
			name:      "low leverage shrinks maximum",
			price:     20000,
			balance:   200,
			leverage:  2,
			requested: "0.05",
			want:      "0.016",
			adjusted:  true,
			bound:     "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := exchange.NewMockExchange(tt.price, tt.balance)
			adjuster := NewBoundsAdjuster(ex, &journal.MemoryRecorder{}, 100)

			requested := decimal.RequireFromString(tt.requested)
			adj, err := adjuster.Clamp(context.Background(), "BTCUSDT", requested, tt.leverage)
			require.NoError(t, err)

			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(adj.Value), "want %s, got %s", want, adj.Value)
			assert.Equal(t, tt.adjusted, adj.Adjusted)
			assert.Equal(t, tt.bound, adj.Bound)
			assert.True(t, requested.Equal(adj.Original), "original must be preserved")
		})
	}
}

func TestClamp_Failures(t *testing.T) {
	t.Run("no USDT balance", func(t *testing.T) {
		ex := exchange.NewMockExchange(50000, 1000)
		ex.BalanceMap = map[string]exchange.Balance{}
		adjuster := NewBoundsAdjuster(ex, &journal.MemoryRecorder{}, 100)

		_, err := adjuster.Clamp(context.Background(), "BTCUSDT", decimal.NewFromFloat(0.01), 20)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "USDT")
	})

	t.Run("price fetch failure", func(t *testing.T) {
		ex := exchange.NewMockExchange(50000, 1000)
		ex.PriceErr = errors.New("timeout")
		adjuster := NewBoundsAdjuster(ex, &journal.MemoryRecorder{}, 100)

		_, err := adjuster.Clamp(context.Background(), "BTCUSDT", decimal.NewFromFloat(0.01), 20)
		require.Error(t, err)
	})
}

func TestClamp_LogsAdjustment(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	rec := &journal.MemoryRecorder{}
	adjuster := NewBoundsAdjuster(ex, rec, 100)

	_, err := adjuster.Clamp(context.Background(), "BTCUSDT", decimal.NewFromFloat(0.0001), 20)
	require.NoError(t, err)

	require.NotEmpty(t, rec.Events)
	last := rec.Events[len(rec.Events)-1]
	assert.Equal(t, "warn", last.Level)
	assert.Equal(t, "quantity below minimum, adjusted", last.Description)
}
