package gateway

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/Zane-/cryptobot/pkg/market"
	"github.com/Zane-/cryptobot/pkg/retry"
	"github.com/Zane-/cryptobot/pkg/stream"
	"github.com/Zane-/cryptobot/pkg/types"
)

// fakeExchange fails every read with failErr until failures hits zero, then
// serves canned data.
type fakeExchange struct {
	failures int
	failErr  error
	calls    int

	balances map[string]types.Balance
	tickers  map[string]types.Ticker
	market   *market.Market
}

func netErr() error {
	return &types.TradeError{Kind: types.ErrNetwork, Constraint: "connection reset"}
}

func (f *fakeExchange) tryFail() error {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return f.failErr
	}
	return nil
}

func (f *fakeExchange) Name() types.ExchangeName { return types.ExchangeBinance }

func (f *fakeExchange) GetBalance(ctx context.Context, asset string) (types.Balance, error) {
	if err := f.tryFail(); err != nil {
		return types.Balance{}, err
	}
	return f.balances[asset], nil
}

func (f *fakeExchange) GetNonzeroBalances(ctx context.Context) (map[string]types.Balance, error) {
	if err := f.tryFail(); err != nil {
		return nil, err
	}
	return f.balances, nil
}

func (f *fakeExchange) GetTicker(ctx context.Context, pair types.Pair) (types.Ticker, error) {
	if err := f.tryFail(); err != nil {
		return types.Ticker{}, err
	}
	return f.tickers[pair.Symbol()], nil
}

func (f *fakeExchange) GetAllTickers(ctx context.Context) (map[string]types.Ticker, error) {
	if err := f.tryFail(); err != nil {
		return nil, err
	}
	return f.tickers, nil
}

func (f *fakeExchange) GetMarket(ctx context.Context, pair types.Pair) (*market.Market, error) {
	if err := f.tryFail(); err != nil {
		return nil, err
	}
	return f.market, nil
}

func (f *fakeExchange) CreateOrder(ctx context.Context, req types.OrderRequest) (*types.OrderRecord, error) {
	return nil, nil
}

func (f *fakeExchange) CancelOrder(ctx context.Context, pair types.Pair, orderID string) error {
	return nil
}

func (f *fakeExchange) GetOpenOrders(ctx context.Context, pair types.Pair) ([]types.OrderRecord, error) {
	return nil, nil
}

func (f *fakeExchange) SubscribeTickerStream(ctx context.Context, onEvent func(types.TickerEvent)) (stream.Stream, error) {
	return nil, nil
}

func testPolicy(attempts int) retry.Policy {
	return retry.Policy{Attempts: attempts, Interval: time.Millisecond}
}

func TestTickerRecoversFromTransientFailures(t *testing.T) {
	ex := &fakeExchange{
		failures: 2,
		failErr:  netErr(),
		tickers:  map[string]types.Ticker{"XLMETH": {Symbol: "XLMETH", Bid: 0.0002}},
	}
	gw := New(ex, testPolicy(4))

	ticker, err := gw.Ticker(context.Background(), types.Pair{Base: "XLM", Quote: "ETH"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticker.Bid != 0.0002 {
		t.Fatalf("expected bid 0.0002, got %v", ticker.Bid)
	}
	if ex.calls != 3 {
		t.Fatalf("expected 3 exchange calls, got %d", ex.calls)
	}
}

func TestTickerExhaustionBecomesDataUnavailable(t *testing.T) {
	ex := &fakeExchange{failures: 100, failErr: netErr()}
	gw := New(ex, testPolicy(4))

	_, err := gw.Ticker(context.Background(), types.Pair{Base: "XLM", Quote: "ETH"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if kind := types.KindOf(err); kind != types.ErrDataUnavailable {
		t.Fatalf("expected data_unavailable, got %v", kind)
	}
	if ex.calls != 4 {
		t.Fatalf("expected exactly 4 exchange calls, got %d", ex.calls)
	}
}

func TestBalanceNonTransientFailurePassesThrough(t *testing.T) {
	ex := &fakeExchange{
		failures: 100,
		failErr:  &types.TradeError{Kind: types.ErrConfiguration, Constraint: "bad symbol"},
	}
	gw := New(ex, testPolicy(4))

	_, err := gw.Balance(context.Background(), "XLM")
	if kind := types.KindOf(err); kind != types.ErrConfiguration {
		t.Fatalf("expected configuration, got %v", kind)
	}
	if ex.calls != 1 {
		t.Fatalf("expected 1 exchange call, got %d", ex.calls)
	}
}

func TestFreeBalance(t *testing.T) {
	ex := &fakeExchange{
		balances: map[string]types.Balance{"XLM": {Asset: "XLM", Free: 100, Locked: 25}},
	}
	gw := New(ex, testPolicy(4))

	free, err := gw.FreeBalance(context.Background(), "XLM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free != 100 {
		t.Fatalf("expected free 100, got %v", free)
	}
	total, err := gw.TotalBalance(context.Background(), "XLM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 125 {
		t.Fatalf("expected total 125, got %v", total)
	}
}

func TestPortfolioUSDRoutesThroughBTC(t *testing.T) {
	ex := &fakeExchange{
		balances: map[string]types.Balance{
			"USDT": {Asset: "USDT", Free: 100},
			"BTC":  {Asset: "BTC", Free: 0.5},
			"XLM":  {Asset: "XLM", Free: 1000},
		},
		tickers: map[string]types.Ticker{
			"BTCUSDT": {Symbol: "BTCUSDT", Last: 60000},
			"XLMBTC":  {Symbol: "XLMBTC", Last: 0.0000015},
		},
	}
	gw := New(ex, testPolicy(4))

	usd, err := gw.PortfolioUSD(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 USDT + 0.5 BTC * 60000 + 1000 XLM * 0.0000015 BTC * 60000
	want := 100.0 + 30000.0 + 90.0
	if math.Abs(usd-want) > 1e-6 {
		t.Fatalf("expected %v USD, got %v", want, usd)
	}
}
