package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amirphl/futures-cli/internal/exchange"
	"github.com/amirphl/futures-cli/internal/journal"
	"github.com/amirphl/futures-cli/internal/order"
	"github.com/amirphl/futures-cli/internal/trader"
)

func newTestApp(ex *exchange.MockExchange, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	tr := trader.New(ex, &journal.MemoryRecorder{}, zap.NewNop(), trader.Options{
		MarginFloorUSD:  10,
		MinNotionalUSD:  100,
		DefaultLeverage: 20,
	})
	return &App{out: out, in: strings.NewReader(input), trader: tr}, out
}

func TestInteractive_MarketOrderFlow(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	// menu choice, symbol (default), side, qty, confirm, exit
	app, out := newTestApp(ex, "1\n\nBUY\n0.01\ny\n0\n")

	require.NoError(t, app.runInteractive(context.Background()))

	require.Len(t, ex.Orders, 1)
	assert.Equal(t, "BTCUSDT", ex.Orders[0].Symbol, "symbol default applied")
	assert.Equal(t, order.SideBuy, ex.Orders[0].Side)
	assert.Contains(t, out.String(), "Market Order Result")
}

func TestInteractive_DeclinedConfirmationPlacesNothing(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	app, _ := newTestApp(ex, "1\nBTCUSDT\nBUY\n0.01\nn\n0\n")

	require.NoError(t, app.runInteractive(context.Background()))
	assert.Empty(t, ex.Orders)
}

func TestInteractive_OCOFlow(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	// choice, symbol, side, qty, tp (default), sl (default), confirm, exit
	app, out := newTestApp(ex, "3\nBTCUSDT\nBUY\n0.01\n\n\ny\n0\n")

	require.NoError(t, app.runInteractive(context.Background()))

	require.Len(t, ex.Orders, 2)
	assert.Contains(t, out.String(), "OCO Stop Order")
	assert.Contains(t, out.String(), "OCO Take Profit Order")
}

func TestInteractive_RejectionReported(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	app, out := newTestApp(ex, "1\nFAKEUSDT\nBUY\n0.01\ny\n0\n")

	require.NoError(t, app.runInteractive(context.Background()))
	assert.Empty(t, ex.Orders)
	assert.Contains(t, out.String(), "not placed")
}

func TestInteractive_ExitOnClosedInput(t *testing.T) {
	ex := exchange.NewMockExchange(50000, 1000)
	app, _ := newTestApp(ex, "")
	require.NoError(t, app.runInteractive(context.Background()))
}
