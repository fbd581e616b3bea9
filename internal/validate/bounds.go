package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirphl/futures-cli/internal/exchange"
	"github.com/amirphl/futures-cli/internal/journal"
)

// Fraction of margin capacity an order may consume. The remainder is
// headroom against fees and adverse moves before the fill.
var safetyFraction = decimal.NewFromFloat(0.8)

// quantityScale is the decimal precision quantities are rounded to.
const quantityScale = 6

// Adjustment is the two-part clamp result. Callers can always tell a
// pass-through from an override.
type Adjustment struct {
	Original decimal.Decimal
	Value    decimal.Decimal
	Adjusted bool
	Bound    string // "min" or "max" when Adjusted
}

// BoundsAdjuster clamps a requested quantity into the range the exchange
// will accept: at least the minimum notional's worth, at most what the
// margin balance carries at the given leverage.
type BoundsAdjuster struct {
	ex          exchange.Exchange
	rec         journal.Recorder
	minNotional decimal.Decimal
}

func NewBoundsAdjuster(ex exchange.Exchange, rec journal.Recorder, minNotionalUSD float64) *BoundsAdjuster {
	return &BoundsAdjuster{
		ex:          ex,
		rec:         rec,
		minNotional: decimal.NewFromFloat(minNotionalUSD),
	}
}

// Clamp computes the acceptable range from the live price and USDT
// balance and silently pulls the quantity inside it. The returned
// Adjustment carries the original value; clamps are logged as warnings.
func (a *BoundsAdjuster) Clamp(ctx context.Context, symbol string, quantity decimal.Decimal, leverage int) (Adjustment, error) {
	price, err := a.ex.SymbolPrice(ctx, symbol)
	if err != nil {
		a.record(ctx, "error", "quantity bounds: price fetch failed", map[string]any{"symbol": symbol, "error": err.Error()})
		return Adjustment{}, fmt.Errorf("fetching price for bounds: %w", err)
	}
	if !price.IsPositive() {
		return Adjustment{}, fmt.Errorf("non-positive price %s for %s", price, symbol)
	}

	balances, err := a.ex.Balances(ctx)
	if err != nil {
		a.record(ctx, "error", "quantity bounds: balance fetch failed", map[string]any{"error": err.Error()})
		return Adjustment{}, fmt.Errorf("fetching balances for bounds: %w", err)
	}
	usdt, ok := balances["USDT"]
	if !ok {
		a.record(ctx, "error", "quantity bounds: no USDT balance", nil)
		return Adjustment{}, fmt.Errorf("no USDT balance on account")
	}

	minQty := a.minNotional.Div(price).RoundBank(quantityScale)
	maxQty := usdt.Balance.
		Mul(decimal.NewFromInt(int64(leverage))).
		Mul(safetyFraction).
		Div(price).
		RoundBank(quantityScale)

	adj := Adjustment{Original: quantity, Value: quantity}

	switch {
	case quantity.LessThan(minQty):
		adj.Value = minQty
		adj.Adjusted = true
		adj.Bound = "min"
		a.record(ctx, "warn", "quantity below minimum, adjusted", map[string]any{
			"symbol": symbol, "requested": quantity.String(), "adjusted": minQty.String(),
		})
	case quantity.GreaterThan(maxQty):
		adj.Value = maxQty
		adj.Adjusted = true
		adj.Bound = "max"
		a.record(ctx, "warn", "quantity above maximum, adjusted", map[string]any{
			"symbol": symbol, "requested": quantity.String(), "adjusted": maxQty.String(),
		})
	default:
		a.record(ctx, "debug", "quantity within bounds", map[string]any{
			"symbol": symbol, "quantity": quantity.String(),
		})
	}

	return adj, nil
}

func (a *BoundsAdjuster) record(ctx context.Context, level, description string, data map[string]any) {
	a.rec.Record(ctx, journal.Event{
		Time:        time.Now().UTC(),
		Type:        "adjustment",
		Level:       level,
		Description: description,
		Data:        data,
	})
}
