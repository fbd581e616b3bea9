// Package exchange
package exchange

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/amirphl/futures-cli/internal/order"
)

// Balance represents a futures wallet asset balance.
type Balance struct {
	Asset     string
	Balance   decimal.Decimal // wallet balance (available + locked in positions)
	Available decimal.Decimal
}

// SymbolInfo is the published metadata for one tradable contract.
type SymbolInfo struct {
	Symbol   string
	Status   string
	MinPrice decimal.Decimal // from the PRICE_FILTER, zero when absent
}

// AccountInfo is a condensed futures account snapshot.
type AccountInfo struct {
	TotalWalletBalance decimal.Decimal
	AvailableBalance   decimal.Decimal
	CanTrade           bool
}

// Exchange is the interface for the futures venue. All calls are
// synchronous single attempts; callers decide what a failure means.
type Exchange interface {
	Name() string
	AccountInfo(ctx context.Context) (AccountInfo, error)
	SymbolPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	Symbols(ctx context.Context) ([]SymbolInfo, error)
	Balances(ctx context.Context) (map[string]Balance, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	CreateOrder(ctx context.Context, req order.Intent) (order.Ack, error)
	Ping(ctx context.Context) error
}
