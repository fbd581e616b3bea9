// Package validate implements the pre-submission order gate and the
// quantity bounds adjuster. Rejections are typed results with a reason
// code; exchange-state failures are a separate error type so callers can
// branch without string matching.
package validate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirphl/futures-cli/internal/exchange"
	"github.com/amirphl/futures-cli/internal/journal"
	"github.com/amirphl/futures-cli/internal/order"
)

// Leverage bounds accepted by the venue.
const (
	MinLeverage = 1
	MaxLeverage = 125
)

// Reason identifies why an intent was rejected.
type Reason string

const (
	ReasonUnknownSymbol  Reason = "unknown_symbol"
	ReasonInvalidSide    Reason = "invalid_side"
	ReasonBadQuantity    Reason = "non_positive_quantity"
	ReasonBadPrice       Reason = "non_positive_price"
	ReasonBadTimeInForce Reason = "invalid_time_in_force"
	ReasonBadLeverage    Reason = "leverage_out_of_range"
	ReasonBadTrigger     Reason = "invalid_trigger_direction"
)

// Rejection is a validation failure. No order is submitted after one.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("order rejected (%s): %s", r.Reason, r.Detail)
}

// Reject builds a reason-coded rejection.
func Reject(reason Reason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// StateError is a failure of live exchange state: insufficient margin or
// an unreachable venue. Fatal for the current attempt, never retried.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("exchange state (%s): %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// Gate runs the ordered pre-submission checks against live exchange data.
// Credential presence is checked earlier, in config, before a client
// exists.
type Gate struct {
	ex          exchange.Exchange
	rec         journal.Recorder
	marginFloor decimal.Decimal
}

func NewGate(ex exchange.Exchange, rec journal.Recorder, marginFloorUSD float64) *Gate {
	return &Gate{
		ex:          ex,
		rec:         rec,
		marginFloor: decimal.NewFromFloat(marginFloorUSD),
	}
}

// Check validates and normalizes an intent. The check order is fixed:
// symbol existence first, then side, quantity/price, time-in-force,
// leverage range, margin floor, and finally the liveness probe. The first
// failure wins and is reported with its own reason.
func (g *Gate) Check(ctx context.Context, in order.Intent) (order.Intent, error) {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))

	info, err := g.checkSymbol(ctx, in.Symbol)
	if err != nil {
		return order.Intent{}, err
	}

	side, err := order.ParseSide(string(in.Side))
	if err != nil {
		rej := Reject(ReasonInvalidSide, "%v", err)
		g.record(ctx, "warn", "side check failed", map[string]any{"side": in.Side, "reason": rej.Reason})
		return order.Intent{}, rej
	}
	in.Side = side

	if !in.Quantity.IsPositive() {
		rej := Reject(ReasonBadQuantity, "quantity must be greater than zero, got %s", in.Quantity)
		g.record(ctx, "warn", "quantity check failed", map[string]any{"quantity": in.Quantity.String()})
		return order.Intent{}, rej
	}

	if err := g.checkPrice(ctx, in, info); err != nil {
		return order.Intent{}, err
	}

	if in.TimeInForce != "" {
		tif, err := order.ParseTimeInForce(string(in.TimeInForce))
		if err != nil {
			rej := Reject(ReasonBadTimeInForce, "%v", err)
			g.record(ctx, "warn", "time-in-force check failed", map[string]any{"tif": in.TimeInForce})
			return order.Intent{}, rej
		}
		in.TimeInForce = tif
	}

	if in.Leverage != 0 && (in.Leverage < MinLeverage || in.Leverage > MaxLeverage) {
		rej := Reject(ReasonBadLeverage, "leverage must be between %d and %d, got %d", MinLeverage, MaxLeverage, in.Leverage)
		g.record(ctx, "warn", "leverage check failed", map[string]any{"leverage": in.Leverage})
		return order.Intent{}, rej
	}

	if err := g.checkMargin(ctx); err != nil {
		return order.Intent{}, err
	}

	if err := g.ex.Ping(ctx); err != nil {
		stateErr := &StateError{Op: "liveness", Err: fmt.Errorf("exchange unreachable: %w", err)}
		g.record(ctx, "error", "liveness probe failed", map[string]any{"error": err.Error()})
		return order.Intent{}, stateErr
	}

	g.record(ctx, "debug", "order intent validated", map[string]any{
		"symbol":   in.Symbol,
		"side":     in.Side,
		"type":     in.Type,
		"quantity": in.Quantity.String(),
	})
	return in, nil
}

func (g *Gate) checkSymbol(ctx context.Context, symbol string) (exchange.SymbolInfo, error) {
	symbols, err := g.ex.Symbols(ctx)
	if err != nil {
		stateErr := &StateError{Op: "exchange_info", Err: err}
		g.record(ctx, "error", "exchange info fetch failed", map[string]any{"error": err.Error()})
		return exchange.SymbolInfo{}, stateErr
	}

	for _, s := range symbols {
		if s.Symbol == symbol {
			g.record(ctx, "debug", "symbol validated", map[string]any{"symbol": symbol})
			return s, nil
		}
	}

	rej := Reject(ReasonUnknownSymbol, "symbol %q is not listed on the futures exchange", symbol)
	g.record(ctx, "warn", "symbol check failed", map[string]any{"symbol": symbol})
	return exchange.SymbolInfo{}, rej
}

func (g *Gate) checkPrice(ctx context.Context, in order.Intent, info exchange.SymbolInfo) error {
	if in.Type == order.TypeLimit || !in.Price.IsZero() {
		if !in.Price.IsPositive() {
			rej := Reject(ReasonBadPrice, "price must be greater than zero, got %s", in.Price)
			g.record(ctx, "warn", "price check failed", map[string]any{"price": in.Price.String()})
			return rej
		}
		// The venue publishes a minimum price per contract. An order
		// below it will bounce at submission; warn but let it through.
		if info.MinPrice.IsPositive() && in.Price.LessThan(info.MinPrice) {
			g.record(ctx, "warn", "price below exchange minimum", map[string]any{
				"symbol":    in.Symbol,
				"price":     in.Price.String(),
				"min_price": info.MinPrice.String(),
			})
		}
	}
	return nil
}

func (g *Gate) checkMargin(ctx context.Context) error {
	balances, err := g.ex.Balances(ctx)
	if err != nil {
		stateErr := &StateError{Op: "balances", Err: err}
		g.record(ctx, "error", "balance fetch failed", map[string]any{"error": err.Error()})
		return stateErr
	}

	usdt, ok := balances["USDT"]
	if !ok {
		stateErr := &StateError{Op: "margin", Err: fmt.Errorf("no USDT balance on account")}
		g.record(ctx, "error", "margin check failed", map[string]any{"error": "no USDT balance"})
		return stateErr
	}

	if usdt.Balance.LessThan(g.marginFloor) {
		stateErr := &StateError{
			Op:  "margin",
			Err: fmt.Errorf("insufficient balance: %s USDT, minimum required is %s USDT", usdt.Balance, g.marginFloor),
		}
		g.record(ctx, "error", "margin check failed", map[string]any{
			"balance": usdt.Balance.String(),
			"floor":   g.marginFloor.String(),
		})
		return stateErr
	}

	g.record(ctx, "debug", "margin validated", map[string]any{"balance": usdt.Balance.String()})
	return nil
}

func (g *Gate) record(ctx context.Context, level, description string, data map[string]any) {
	g.rec.Record(ctx, journal.Event{
		Time:        time.Now().UTC(),
		Type:        "validation",
		Level:       level,
		Description: description,
		Data:        data,
	})
}
