package order

import (
	"context"

	"github.com/Zane-/cryptobot/pkg/market"
	"github.com/Zane-/cryptobot/pkg/types"
)

// Intent is a strategy-level order decision: trade a percentage of the
// current balance rather than an absolute quantity, so the same strategy
// works at any account size. Ephemeral, one per decision.
type Intent struct {
	Pair       types.Pair
	Side       types.OrderSide
	Percent    float64 // percentage of balance in (0,100]
	Price      float64 // limit price; 0 means market
	AutoAdjust bool    // permit automatic quantity correction
}

func (it Intent) orderType() types.OrderType {
	if it.Price > 0 {
		return types.OrderLimit
	}
	return types.OrderMarket
}

// MarketData is the slice of the market-data gateway the order core reads.
type MarketData interface {
	FreeBalance(ctx context.Context, asset string) (float64, error)
	NonzeroBalances(ctx context.Context) (map[string]types.Balance, error)
	Ticker(ctx context.Context, pair types.Pair) (types.Ticker, error)
	Market(ctx context.Context, pair types.Pair) (*market.Market, error)
}

// OrderPlacer is the write side of the exchange boundary.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req types.OrderRequest) (*types.OrderRecord, error)
	CancelOrder(ctx context.Context, pair types.Pair, orderID string) error
	GetOpenOrders(ctx context.Context, pair types.Pair) ([]types.OrderRecord, error)
}
