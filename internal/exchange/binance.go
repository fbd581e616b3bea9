// Package exchange
package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/amirphl/futures-cli/internal/order"
)

// BinanceFutures adapts the USDT-margined futures API to the Exchange
// interface. Every call is a single blocking attempt; there is no retry
// or backoff here.
type BinanceFutures struct {
	client *futures.Client
	log    *zap.Logger
}

// NewBinanceFutures creates the client. The testnet flag flips the
// package-level endpoint selector before the client is constructed.
func NewBinanceFutures(apiKey, secretKey string, testnet bool, log *zap.Logger) *BinanceFutures {
	futures.UseTestnet = testnet
	if testnet {
		log.Debug("exchange endpoint set to futures testnet")
	}
	return &BinanceFutures{
		client: binance.NewFuturesClient(apiKey, secretKey),
		log:    log,
	}
}

func (b *BinanceFutures) Name() string {
	return "binance-futures"
}

func (b *BinanceFutures) AccountInfo(ctx context.Context) (AccountInfo, error) {
	select {
	case <-ctx.Done():
		b.log.Warn("AccountInfo aborted", zap.Error(ctx.Err()))
		return AccountInfo{}, ctx.Err()

	default:
		acct, err := b.client.NewGetAccountService().Do(ctx)
		if err != nil {
			return AccountInfo{}, fmt.Errorf("fetching account info: %w", err)
		}
		return AccountInfo{
			TotalWalletBalance: b.dec(acct.TotalWalletBalance),
			AvailableBalance:   b.dec(acct.AvailableBalance),
			CanTrade:           acct.CanTrade,
		}, nil
	}
}

func (b *BinanceFutures) SymbolPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	select {
	case <-ctx.Done():
		b.log.Warn("SymbolPrice aborted", zap.Error(ctx.Err()))
		return decimal.Zero, ctx.Err()

	default:
		prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
		if err != nil {
			return decimal.Zero, fmt.Errorf("fetching price for %s: %w", symbol, err)
		}
		if len(prices) == 0 {
			return decimal.Zero, fmt.Errorf("no price returned for %s", symbol)
		}
		p, err := decimal.NewFromString(prices[0].Price)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing price %q for %s: %w", prices[0].Price, symbol, err)
		}
		return p, nil
	}
}

func (b *BinanceFutures) Symbols(ctx context.Context) ([]SymbolInfo, error) {
	select {
	case <-ctx.Done():
		b.log.Warn("Symbols aborted", zap.Error(ctx.Err()))
		return nil, ctx.Err()

	default:
		info, err := b.client.NewExchangeInfoService().Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching exchange info: %w", err)
		}

		symbols := make([]SymbolInfo, 0, len(info.Symbols))
		for _, s := range info.Symbols {
			si := SymbolInfo{Symbol: s.Symbol, Status: s.Status}
			if pf := s.PriceFilter(); pf != nil {
				si.MinPrice = b.dec(pf.MinPrice)
			}
			symbols = append(symbols, si)
		}
		return symbols, nil
	}
}

func (b *BinanceFutures) Balances(ctx context.Context) (map[string]Balance, error) {
	select {
	case <-ctx.Done():
		b.log.Warn("Balances aborted", zap.Error(ctx.Err()))
		return nil, ctx.Err()

	default:
		raw, err := b.client.NewGetBalanceService().Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching balances: %w", err)
		}

		balances := make(map[string]Balance, len(raw))
		for _, rb := range raw {
			balances[rb.Asset] = Balance{
				Asset:     rb.Asset,
				Balance:   b.dec(rb.Balance),
				Available: b.dec(rb.AvailableBalance),
			}
		}
		return balances, nil
	}
}

func (b *BinanceFutures) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	select {
	case <-ctx.Done():
		b.log.Warn("SetLeverage aborted", zap.Error(ctx.Err()))
		return ctx.Err()

	default:
		resp, err := b.client.NewChangeLeverageService().Symbol(symbol).Leverage(leverage).Do(ctx)
		if err != nil {
			return fmt.Errorf("changing leverage for %s: %w", symbol, err)
		}
		b.log.Info("leverage changed",
			zap.String("symbol", resp.Symbol),
			zap.Int("leverage", resp.Leverage),
		)
		return nil
	}
}

func (b *BinanceFutures) CreateOrder(ctx context.Context, req order.Intent) (order.Ack, error) {
	select {
	case <-ctx.Done():
		b.log.Warn("CreateOrder aborted", zap.Error(ctx.Err()))
		return order.Ack{}, ctx.Err()

	default:
		svc := b.client.NewCreateOrderService().
			Symbol(req.Symbol).
			Side(futures.SideType(req.Side)).
			Type(futures.OrderType(req.Type)).
			Quantity(req.Quantity.String())

		if req.Price.IsPositive() {
			svc = svc.Price(req.Price.String())
		}
		if req.StopPrice.IsPositive() {
			svc = svc.StopPrice(req.StopPrice.String())
		}
		if req.TimeInForce != "" {
			svc = svc.TimeInForce(futures.TimeInForceType(req.TimeInForce))
		}

		resp, err := svc.Do(ctx)
		if err != nil {
			return order.Ack{}, err
		}
		return b.ackFromResponse(resp), nil
	}
}

func (b *BinanceFutures) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		b.log.Warn("Ping aborted", zap.Error(ctx.Err()))
		return ctx.Err()

	default:
		return b.client.NewPingService().Do(ctx)
	}
}

func (b *BinanceFutures) ackFromResponse(resp *futures.CreateOrderResponse) order.Ack {
	return order.Ack{
		OrderID:       resp.OrderID,
		ClientOrderID: resp.ClientOrderID,
		Symbol:        resp.Symbol,
		Status:        string(resp.Status),
		Side:          order.Side(resp.Side),
		Type:          order.Type(resp.Type),
		Price:         b.dec(resp.Price),
		StopPrice:     b.dec(resp.StopPrice),
		Quantity:      b.dec(resp.OrigQuantity),
		ExecutedQty:   b.dec(resp.ExecutedQuantity),
		AvgPrice:      b.dec(resp.AvgPrice),
		UpdatedAt:     time.UnixMilli(resp.UpdateTime).UTC(),
	}
}

// Helper to parse exchange string numbers, zero on garbage. A non-empty
// value that fails to parse is logged so it does not masquerade as an
// empty balance.
func (b *BinanceFutures) dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		if s != "" {
			b.log.Warn("unparseable exchange numeric", zap.String("value", s), zap.Error(err))
		}
		return decimal.Zero
	}
	return d
}
