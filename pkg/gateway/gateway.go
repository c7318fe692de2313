package gateway

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/Zane-/cryptobot/pkg/exchange"
	"github.com/Zane-/cryptobot/pkg/market"
	"github.com/Zane-/cryptobot/pkg/retry"
	"github.com/Zane-/cryptobot/pkg/stream"
	"github.com/Zane-/cryptobot/pkg/types"
)

// Gateway wraps raw exchange reads in the bounded network-retry policy.
// When the budget runs out the caller gets an ErrDataUnavailable sentinel,
// meaning "data unavailable right now", never a hard process failure.
type Gateway struct {
	ex     exchange.Exchange
	policy retry.Policy
	logger *log.Entry
}

func New(ex exchange.Exchange, policy retry.Policy) *Gateway {
	if policy.Retryable == nil {
		policy.Retryable = func(err error) bool {
			return types.KindOf(err) == types.ErrNetwork
		}
	}
	return &Gateway{
		ex:     ex,
		policy: policy,
		logger: log.WithFields(log.Fields{"component": "gateway"}),
	}
}

func (g *Gateway) Balance(ctx context.Context, asset string) (types.Balance, error) {
	var bal types.Balance
	err := g.policy.Do(ctx, "GetBalance", func() error {
		var err error
		bal, err = g.ex.GetBalance(ctx, asset)
		return err
	})
	return bal, g.wrap(err)
}

// FreeBalance returns the asset quantity available to trade right now.
func (g *Gateway) FreeBalance(ctx context.Context, asset string) (float64, error) {
	bal, err := g.Balance(ctx, asset)
	return bal.Free, err
}

// TotalBalance returns free plus reserved-in-open-orders.
func (g *Gateway) TotalBalance(ctx context.Context, asset string) (float64, error) {
	bal, err := g.Balance(ctx, asset)
	return bal.Total(), err
}

func (g *Gateway) NonzeroBalances(ctx context.Context) (map[string]types.Balance, error) {
	var balances map[string]types.Balance
	err := g.policy.Do(ctx, "GetNonzeroBalances", func() error {
		var err error
		balances, err = g.ex.GetNonzeroBalances(ctx)
		return err
	})
	return balances, g.wrap(err)
}

func (g *Gateway) Ticker(ctx context.Context, pair types.Pair) (types.Ticker, error) {
	var ticker types.Ticker
	err := g.policy.Do(ctx, "GetTicker", func() error {
		var err error
		ticker, err = g.ex.GetTicker(ctx, pair)
		return err
	})
	return ticker, g.wrap(err)
}

func (g *Gateway) Tickers(ctx context.Context, pairs []types.Pair) (map[string]types.Ticker, error) {
	tickers := make(map[string]types.Ticker, len(pairs))
	for _, pair := range pairs {
		ticker, err := g.Ticker(ctx, pair)
		if err != nil {
			return nil, err
		}
		tickers[pair.String()] = ticker
	}
	return tickers, nil
}

func (g *Gateway) AllTickers(ctx context.Context) (map[string]types.Ticker, error) {
	var tickers map[string]types.Ticker
	err := g.policy.Do(ctx, "GetAllTickers", func() error {
		var err error
		tickers, err = g.ex.GetAllTickers(ctx)
		return err
	})
	return tickers, g.wrap(err)
}

func (g *Gateway) Market(ctx context.Context, pair types.Pair) (*market.Market, error) {
	var mkt *market.Market
	err := g.policy.Do(ctx, "GetMarket", func() error {
		var err error
		mkt, err = g.ex.GetMarket(ctx, pair)
		return err
	})
	return mkt, g.wrap(err)
}

// WatchTickers exposes the live ticker stream to strategy collaborators.
func (g *Gateway) WatchTickers(ctx context.Context, onEvent func(types.TickerEvent)) (stream.Stream, error) {
	return g.ex.SubscribeTickerStream(ctx, onEvent)
}

// PortfolioUSD values every nonzero holding in USD, pricing assets through
// their USDT market directly or through BTC as an intermediate.
func (g *Gateway) PortfolioUSD(ctx context.Context) (float64, error) {
	balances, err := g.NonzeroBalances(ctx)
	if err != nil {
		return 0, err
	}
	tickers, err := g.AllTickers(ctx)
	if err != nil {
		return 0, err
	}

	btcUSD := 0.0
	if t, ok := tickers["BTCUSDT"]; ok {
		btcUSD = t.Last
	}

	total := 0.0
	for asset, bal := range balances {
		switch {
		case asset == "USDT":
			total += bal.Total()
		default:
			if t, ok := tickers[asset+"USDT"]; ok {
				total += bal.Total() * t.Last
				continue
			}
			if t, ok := tickers[asset+"BTC"]; ok && btcUSD > 0 {
				total += bal.Total() * t.Last * btcUSD
				continue
			}
			g.logger.Warnf("no USD route for asset %s, skipping in portfolio valuation", asset)
		}
	}
	return total, nil
}

// wrap converts an exhausted network-retry failure into the
// DataUnavailable sentinel; all other failures pass through untouched.
func (g *Gateway) wrap(err error) error {
	if err == nil {
		return nil
	}
	if types.KindOf(err) == types.ErrNetwork {
		return &types.TradeError{Kind: types.ErrDataUnavailable, Err: err}
	}
	return err
}
