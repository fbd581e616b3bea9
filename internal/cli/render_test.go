package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirphl/futures-cli/internal/order"
)

func TestRenderAck(t *testing.T) {
	var buf bytes.Buffer
	renderAck(&buf, "Market Order Result", order.Ack{
		OrderID:       4321,
		ClientOrderID: "abc",
		Symbol:        "BTCUSDT",
		Status:        "FILLED",
		Side:          order.SideBuy,
		Type:          order.TypeMarket,
		Quantity:      decimal.NewFromFloat(0.002),
		ExecutedQty:   decimal.NewFromFloat(0.002),
		AvgPrice:      decimal.NewFromInt(50000),
		UpdatedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})

	out := buf.String()
	assert.Contains(t, out, "Market Order Result")
	assert.Contains(t, out, "4321")
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "FILLED")
	assert.Contains(t, out, "0.002")
	// Zero price omitted for market orders.
	assert.NotContains(t, out, "Stop Price")
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	banner(&buf)
	assert.Contains(t, buf.String(), "Binance Futures Trading CLI")
}

func TestPrompt(t *testing.T) {
	t.Run("default on empty input", func(t *testing.T) {
		app := &App{out: &bytes.Buffer{}}
		reader := bufio.NewReader(strings.NewReader("\n"))
		got, ok := app.prompt(reader, "Symbol", "BTCUSDT")
		require.True(t, ok)
		assert.Equal(t, "BTCUSDT", got)
	})

	t.Run("explicit value wins", func(t *testing.T) {
		app := &App{out: &bytes.Buffer{}}
		reader := bufio.NewReader(strings.NewReader("ETHUSDT\n"))
		got, ok := app.prompt(reader, "Symbol", "BTCUSDT")
		require.True(t, ok)
		assert.Equal(t, "ETHUSDT", got)
	})

	t.Run("closed input", func(t *testing.T) {
		app := &App{out: &bytes.Buffer{}}
		reader := bufio.NewReader(strings.NewReader(""))
		_, ok := app.prompt(reader, "Symbol", "")
		assert.False(t, ok)
	})
}

func TestPromptFloat_RetriesOnGarbage(t *testing.T) {
	app := &App{out: &bytes.Buffer{}}
	reader := bufio.NewReader(strings.NewReader("abc\n0.5\n"))
	got, ok := app.promptFloat(reader, "Quantity", "")
	require.True(t, ok)
	assert.Equal(t, 0.5, got)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false}, // default is No
	}
	for _, tt := range tests {
		app := &App{out: &bytes.Buffer{}}
		reader := bufio.NewReader(strings.NewReader(tt.in))
		assert.Equal(t, tt.want, app.confirm(reader), "input %q", tt.in)
	}
}
