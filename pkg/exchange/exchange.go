package exchange

import (
	"context"
	"errors"

	"github.com/Zane-/cryptobot/config"
	"github.com/Zane-/cryptobot/pkg/exchange/bnc"
	"github.com/Zane-/cryptobot/pkg/market"
	"github.com/Zane-/cryptobot/pkg/stream"
	"github.com/Zane-/cryptobot/pkg/types"
)

// Exchange is the boundary to a single authenticated exchange account.
// Implementations classify every failure into a types.TradeError kind and
// normalize responses into typed records before returning.
type Exchange interface {
	Name() types.ExchangeName

	GetBalance(ctx context.Context, asset string) (types.Balance, error)
	GetNonzeroBalances(ctx context.Context) (map[string]types.Balance, error)
	GetTicker(ctx context.Context, pair types.Pair) (types.Ticker, error)
	GetAllTickers(ctx context.Context) (map[string]types.Ticker, error)
	GetMarket(ctx context.Context, pair types.Pair) (*market.Market, error)

	CreateOrder(ctx context.Context, req types.OrderRequest) (*types.OrderRecord, error)
	CancelOrder(ctx context.Context, pair types.Pair, orderID string) error
	GetOpenOrders(ctx context.Context, pair types.Pair) ([]types.OrderRecord, error)

	SubscribeTickerStream(ctx context.Context, onEvent func(types.TickerEvent)) (stream.Stream, error)
}

// creates a new exchange instance based on the configured venue
func New(exchgConfig *config.ExchangeConfig) (Exchange, error) {
	switch exchgConfig.Name {
	case types.ExchangeBinance:
		return bnc.New(exchgConfig)
	default:
		return nil, errors.New("unsupported exchange")
	}
}
