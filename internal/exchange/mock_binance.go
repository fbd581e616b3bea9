// Package exchange
package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirphl/futures-cli/internal/order"
)

// MockExchange is a scriptable in-memory Exchange for tests. Fixture
// fields configure responses; every call is appended to Calls so tests
// can assert ordering.
type MockExchange struct {
	SymbolList  []SymbolInfo
	Prices      map[string]decimal.Decimal
	BalanceMap  map[string]Balance
	Account     AccountInfo
	AccountErr  error
	SymbolsErr  error
	PriceErr    error
	BalancesErr error
	LeverageErr error
	PingErr     error

	// CreateErr fails CreateOrder calls. When CreateErrOnCall is zero
	// every call fails; otherwise only the Nth call (1-based) fails and
	// the rest succeed.
	CreateErr       error
	CreateErrOnCall int

	Calls         []string
	Orders        []order.Intent
	LeverageCalls []LeverageCall

	orderCounter int64
	createCalls  int
}

type LeverageCall struct {
	Symbol   string
	Leverage int
}

// NewMockExchange returns a mock with a single BTCUSDT market at the
// given price and a funded USDT wallet.
func NewMockExchange(price, usdtBalance float64) *MockExchange {
	return &MockExchange{
		SymbolList: []SymbolInfo{
			{Symbol: "BTCUSDT", Status: "TRADING", MinPrice: decimal.NewFromFloat(556.8)},
			{Symbol: "ETHUSDT", Status: "TRADING"},
		},
		Prices: map[string]decimal.Decimal{
			"BTCUSDT": decimal.NewFromFloat(price),
			"ETHUSDT": decimal.NewFromFloat(price / 15),
		},
		BalanceMap: map[string]Balance{
			"USDT": {
				Asset:     "USDT",
				Balance:   decimal.NewFromFloat(usdtBalance),
				Available: decimal.NewFromFloat(usdtBalance),
			},
		},
		Account: AccountInfo{
			TotalWalletBalance: decimal.NewFromFloat(usdtBalance),
			AvailableBalance:   decimal.NewFromFloat(usdtBalance),
			CanTrade:           true,
		},
		orderCounter: 1000,
	}
}

func (m *MockExchange) Name() string {
	return "mock-binance-futures"
}

func (m *MockExchange) AccountInfo(ctx context.Context) (AccountInfo, error) {
	m.Calls = append(m.Calls, "AccountInfo")
	if m.AccountErr != nil {
		return AccountInfo{}, m.AccountErr
	}
	return m.Account, nil
}

func (m *MockExchange) SymbolPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	m.Calls = append(m.Calls, "SymbolPrice")
	if m.PriceErr != nil {
		return decimal.Zero, m.PriceErr
	}
	p, ok := m.Prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("no price for %s", symbol)
	}
	return p, nil
}

func (m *MockExchange) Symbols(ctx context.Context) ([]SymbolInfo, error) {
	m.Calls = append(m.Calls, "Symbols")
	if m.SymbolsErr != nil {
		return nil, m.SymbolsErr
	}
	return m.SymbolList, nil
}

func (m *MockExchange) Balances(ctx context.Context) (map[string]Balance, error) {
	m.Calls = append(m.Calls, "Balances")
	if m.BalancesErr != nil {
		return nil, m.BalancesErr
	}
	return m.BalanceMap, nil
}

func (m *MockExchange) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	m.Calls = append(m.Calls, "SetLeverage")
	if m.LeverageErr != nil {
		return m.LeverageErr
	}
	m.LeverageCalls = append(m.LeverageCalls, LeverageCall{Symbol: symbol, Leverage: leverage})
	return nil
}

func (m *MockExchange) CreateOrder(ctx context.Context, req order.Intent) (order.Ack, error) {
	m.Calls = append(m.Calls, "CreateOrder")
	m.createCalls++
	if m.CreateErr != nil && (m.CreateErrOnCall == 0 || m.CreateErrOnCall == m.createCalls) {
		return order.Ack{}, m.CreateErr
	}
	m.Orders = append(m.Orders, req)
	m.orderCounter++

	status := "NEW"
	executed := decimal.Zero
	avg := decimal.Zero
	if req.Type == order.TypeMarket {
		status = "FILLED"
		executed = req.Quantity
		avg = m.Prices[req.Symbol]
	}

	return order.Ack{
		OrderID:       m.orderCounter,
		ClientOrderID: fmt.Sprintf("mock-%d", m.orderCounter),
		Symbol:        req.Symbol,
		Status:        status,
		Side:          req.Side,
		Type:          req.Type,
		Price:         req.Price,
		StopPrice:     req.StopPrice,
		Quantity:      req.Quantity,
		ExecutedQty:   executed,
		AvgPrice:      avg,
		UpdatedAt:     time.Now().UTC(),
	}, nil
}

func (m *MockExchange) Ping(ctx context.Context) error {
	m.Calls = append(m.Calls, "Ping")
	return m.PingErr
}
