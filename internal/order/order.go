// Package order
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side of an order, uppercase on the wire.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide normalizes a user-supplied side case-insensitively.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("side must be BUY or SELL, got %q", s)
	}
}

// Opposite returns the closing side for a position opened with s.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Type is the exchange order type.
type Type string

const (
	TypeMarket           Type = "MARKET"
	TypeLimit            Type = "LIMIT"
	TypeStopMarket       Type = "STOP_MARKET"
	TypeTakeProfitMarket Type = "TAKE_PROFIT_MARKET"
)

// TimeInForce is the order lifetime policy.
type TimeInForce string

const (
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
)

// ParseTimeInForce normalizes a user-supplied time-in-force.
func ParseTimeInForce(s string) (TimeInForce, error) {
	switch TimeInForce(strings.ToUpper(strings.TrimSpace(s))) {
	case GTC:
		return GTC, nil
	case IOC:
		return IOC, nil
	case FOK:
		return FOK, nil
	default:
		return "", fmt.Errorf("timeInForce must be one of GTC, IOC, FOK, got %q", s)
	}
}

// Intent represents a new order to be validated and submitted.
// Zero-valued Price, StopPrice, Leverage and TimeInForce mean "not set".
type Intent struct {
	Symbol      string
	Side        Side
	Type        Type
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	StopPrice   decimal.Decimal
	Leverage    int
	TimeInForce TimeInForce
}

// Ack is the exchange's acknowledgment of a submitted order.
type Ack struct {
	OrderID       int64
	ClientOrderID string
	Symbol        string
	Status        string
	Side          Side
	Type          Type
	Price         decimal.Decimal
	StopPrice     decimal.Decimal
	Quantity      decimal.Decimal
	ExecutedQty   decimal.Decimal
	AvgPrice      decimal.Decimal
	UpdatedAt     time.Time
}
