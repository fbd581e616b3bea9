// Package oco derives take-profit and stop-loss trigger prices from a
// live price sample and submits them as a bracket of two conditional
// orders.
//
// The two orders are NOT linked on the exchange: when one triggers, the
// sibling stays open and must be cancelled by the operator. True
// one-cancels-other behavior needs either an exchange-native OCO endpoint
// or an external watcher that polls fills and cancels the survivor; this
// tool provides neither.
package oco

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirphl/futures-cli/internal/exchange"
	"github.com/amirphl/futures-cli/internal/journal"
	"github.com/amirphl/futures-cli/internal/order"
	"github.com/amirphl/futures-cli/internal/validate"
)

var hundred = decimal.NewFromInt(100)

// Bracket holds the derived trigger prices and the side that closes the
// position they protect.
type Bracket struct {
	TakeProfit  decimal.Decimal
	StopLoss    decimal.Decimal
	ClosingSide order.Side
}

// Derive computes absolute trigger prices from percentage offsets around
// the current price, rounded half-to-even to whole quote units. For a BUY the bracket
// must satisfy SL < price < TP; for a SELL, TP < price < SL. Degenerate
// offsets (0% or negative) violate the invariant and are rejected.
func Derive(price decimal.Decimal, side order.Side, tpPercent, slPercent float64) (Bracket, error) {
	tpOffset := decimal.NewFromFloat(tpPercent).Div(hundred)
	slOffset := decimal.NewFromFloat(slPercent).Div(hundred)
	one := decimal.NewFromInt(1)

	var b Bracket
	switch side {
	case order.SideBuy:
		b = Bracket{
			TakeProfit:  price.Mul(one.Add(tpOffset)).RoundBank(0),
			StopLoss:    price.Mul(one.Sub(slOffset)).RoundBank(0),
			ClosingSide: order.SideSell,
		}
		if b.StopLoss.GreaterThanOrEqual(price) {
			return Bracket{}, validate.Reject(validate.ReasonBadTrigger,
				"stop loss %s must be below the current price %s for a BUY position", b.StopLoss, price)
		}
		if b.TakeProfit.LessThanOrEqual(price) {
			return Bracket{}, validate.Reject(validate.ReasonBadTrigger,
				"take profit %s must be above the current price %s for a BUY position", b.TakeProfit, price)
		}

	case order.SideSell:
		b = Bracket{
			TakeProfit:  price.Mul(one.Sub(tpOffset)).RoundBank(0),
			StopLoss:    price.Mul(one.Add(slOffset)).RoundBank(0),
			ClosingSide: order.SideBuy,
		}
		if b.StopLoss.LessThanOrEqual(price) {
			return Bracket{}, validate.Reject(validate.ReasonBadTrigger,
				"stop loss %s must be above the current price %s for a SELL position", b.StopLoss, price)
		}
		if b.TakeProfit.GreaterThanOrEqual(price) {
			return Bracket{}, validate.Reject(validate.ReasonBadTrigger,
				"take profit %s must be below the current price %s for a SELL position", b.TakeProfit, price)
		}

	default:
		return Bracket{}, validate.Reject(validate.ReasonInvalidSide, "side must be BUY or SELL, got %q", side)
	}

	return b, nil
}

// Pair is the two submitted bracket orders.
type Pair struct {
	StopLoss   order.Ack
	TakeProfit order.Ack
}

// Placer submits bracket orders around the live price.
type Placer struct {
	ex  exchange.Exchange
	rec journal.Recorder
}

func NewPlacer(ex exchange.Exchange, rec journal.Recorder) *Placer {
	return &Placer{ex: ex, rec: rec}
}

// Place samples the current price, derives the bracket and submits the
// stop-loss (STOP_MARKET) and take-profit (TAKE_PROFIT_MARKET) orders
// independently. If the take-profit submission fails after the stop-loss
// was accepted, the stop-loss is left in place and the error says so.
func (p *Placer) Place(ctx context.Context, symbol string, side order.Side, quantity decimal.Decimal, tpPercent, slPercent float64) (*Pair, error) {
	price, err := p.ex.SymbolPrice(ctx, symbol)
	if err != nil {
		p.record(ctx, "error", "bracket price sample failed", map[string]any{"symbol": symbol, "error": err.Error()})
		return nil, fmt.Errorf("sampling price for %s: %w", symbol, err)
	}

	bracket, err := Derive(price, side, tpPercent, slPercent)
	if err != nil {
		p.record(ctx, "warn", "bracket derivation rejected", map[string]any{
			"symbol": symbol, "side": side, "price": price.String(), "error": err.Error(),
		})
		return nil, err
	}

	p.record(ctx, "info", "bracket derived", map[string]any{
		"symbol":       symbol,
		"side":         side,
		"price":        price.String(),
		"take_profit":  bracket.TakeProfit.String(),
		"stop_loss":    bracket.StopLoss.String(),
		"closing_side": bracket.ClosingSide,
	})

	slAck, err := p.ex.CreateOrder(ctx, order.Intent{
		Symbol:    symbol,
		Side:      bracket.ClosingSide,
		Type:      order.TypeStopMarket,
		Quantity:  quantity,
		StopPrice: bracket.StopLoss,
	})
	if err != nil {
		p.record(ctx, "error", "stop loss submission failed", map[string]any{"symbol": symbol, "error": err.Error()})
		return nil, fmt.Errorf("submitting stop loss: %w", err)
	}

	tpAck, err := p.ex.CreateOrder(ctx, order.Intent{
		Symbol:    symbol,
		Side:      bracket.ClosingSide,
		Type:      order.TypeTakeProfitMarket,
		Quantity:  quantity,
		StopPrice: bracket.TakeProfit,
	})
	if err != nil {
		p.record(ctx, "error", "take profit submission failed, stop loss remains open", map[string]any{
			"symbol":        symbol,
			"stop_order_id": slAck.OrderID,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("submitting take profit (stop loss order %d remains open): %w", slAck.OrderID, err)
	}

	p.record(ctx, "info", "bracket orders placed", map[string]any{
		"symbol":          symbol,
		"stop_order_id":   slAck.OrderID,
		"profit_order_id": tpAck.OrderID,
	})
	return &Pair{StopLoss: slAck, TakeProfit: tpAck}, nil
}

func (p *Placer) record(ctx context.Context, level, description string, data map[string]any) {
	p.rec.Record(ctx, journal.Event{
		Time:        time.Now().UTC(),
		Type:        "derivation",
		Level:       level,
		Description: description,
		Data:        data,
	})
}
