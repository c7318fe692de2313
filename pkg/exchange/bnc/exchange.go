package bnc

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/adshao/go-binance/v2"

	"github.com/Zane-/cryptobot/config"
	"github.com/Zane-/cryptobot/pkg/market"
	"github.com/Zane-/cryptobot/pkg/stream"
	"github.com/Zane-/cryptobot/pkg/types"
	"github.com/Zane-/cryptobot/pkg/utils"
)

// BncExchange is the Binance spot implementation of exchange.Exchange.
// One authenticated client per process, constructed once at start and
// passed into every component that needs it.
type BncExchange struct {
	client *binance.Client

	mu      sync.RWMutex
	markets map[string]*market.Market // lazily cached per symbol for process lifetime

	logger *log.Entry
}

func New(exchgConfig *config.ExchangeConfig) (*BncExchange, error) {
	binance.UseTestnet = config.Env.EnvName != types.EnvProd

	key := utils.LoadEnv(exchgConfig.EnvPrefix + "_API_KEY")
	secret := utils.LoadEnv(exchgConfig.EnvPrefix + "_API_SECRET")
	if key == "" || secret == "" {
		return nil, fmt.Errorf("API key or secret is not set: prefix %v", exchgConfig.EnvPrefix)
	}

	return &BncExchange{
		client:  binance.NewClient(key, secret),
		markets: make(map[string]*market.Market),
		logger:  log.WithFields(log.Fields{"exchange": types.ExchangeBinance}),
	}, nil
}

func (e *BncExchange) Name() types.ExchangeName {
	return types.ExchangeBinance
}

// ╔═════════════╗
//     Account
// ╚═════════════╝

func (e *BncExchange) GetBalance(ctx context.Context, asset string) (types.Balance, error) {
	account, err := e.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return types.Balance{}, classifyErr("GetBalance", err)
	}
	for _, b := range account.Balances {
		if b.Asset == asset {
			return parseBalance(b)
		}
	}
	// an asset the account never touched simply has a zero balance
	return types.Balance{Asset: asset}, nil
}

func (e *BncExchange) GetNonzeroBalances(ctx context.Context) (map[string]types.Balance, error) {
	account, err := e.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, classifyErr("GetNonzeroBalances", err)
	}
	balances := make(map[string]types.Balance)
	for _, b := range account.Balances {
		bal, err := parseBalance(b)
		if err != nil {
			return nil, err
		}
		if bal.Total() > 0 {
			balances[bal.Asset] = bal
		}
	}
	return balances, nil
}

// ╔═════════════╗
//     Tickers
// ╚═════════════╝

func (e *BncExchange) GetTicker(ctx context.Context, pair types.Pair) (types.Ticker, error) {
	stats, err := e.client.NewListPriceChangeStatsService().Symbol(pair.Symbol()).Do(ctx)
	if err != nil {
		return types.Ticker{}, classifyErr("GetTicker", err)
	}
	if len(stats) == 0 {
		return types.Ticker{}, &types.TradeError{
			Kind:       types.ErrConfiguration,
			Pair:       pair,
			Constraint: "symbol not listed on exchange",
		}
	}
	return parseTicker(stats[0])
}

func (e *BncExchange) GetAllTickers(ctx context.Context) (map[string]types.Ticker, error) {
	stats, err := e.client.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, classifyErr("GetAllTickers", err)
	}
	tickers := make(map[string]types.Ticker, len(stats))
	for _, s := range stats {
		ticker, err := parseTicker(s)
		if err != nil {
			return nil, err
		}
		tickers[ticker.Symbol] = ticker
	}
	return tickers, nil
}

// ╔═════════════╗
//      Order
// ╚═════════════╝

func (e *BncExchange) CreateOrder(ctx context.Context, req types.OrderRequest) (*types.OrderRecord, error) {
	mkt, err := e.GetMarket(ctx, req.Pair)
	if err != nil {
		return nil, err
	}
	side := binance.SideTypeBuy
	if req.Side == types.OrderSideSell {
		side = binance.SideTypeSell
	}

	svc := e.client.NewCreateOrderService().
		Symbol(req.Pair.Symbol()).
		Side(side).
		Quantity(mkt.FormatQty(req.Quantity))
	if req.Type == types.OrderLimit {
		svc = svc.Type(binance.OrderTypeLimit).
			TimeInForce(binance.TimeInForceTypeGTC).
			Price(mkt.FormatPrice(req.Price))
	} else {
		svc = svc.Type(binance.OrderTypeMarket)
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return nil, classifyOrderErr("CreateOrder", err, req)
	}
	rec, err := parseCreateOrder(res)
	if err != nil {
		return nil, err
	}
	e.logger.WithFields(log.Fields{
		"pair":  req.Pair.String(),
		"side":  req.Side,
		"type":  req.Type,
		"qty":   rec.OrigQty,
		"order": rec.ID,
	}).Info("order placed")
	return rec, nil
}

func (e *BncExchange) CancelOrder(ctx context.Context, pair types.Pair, orderID string) error {
	id, err := parseOrderID(orderID)
	if err != nil {
		return err
	}
	_, err = e.client.NewCancelOrderService().Symbol(pair.Symbol()).OrderID(id).Do(ctx)
	if err != nil {
		return classifyErr("CancelOrder", err)
	}
	return nil
}

func (e *BncExchange) GetOpenOrders(ctx context.Context, pair types.Pair) ([]types.OrderRecord, error) {
	orders, err := e.client.NewListOpenOrdersService().Symbol(pair.Symbol()).Do(ctx)
	if err != nil {
		return nil, classifyErr("GetOpenOrders", err)
	}
	records := make([]types.OrderRecord, 0, len(orders))
	for _, o := range orders {
		rec, err := parseOpenOrder(o)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// ╔═════════════╗
//     Stream
// ╚═════════════╝

// SubscribeTickerStream delivers live all-market miniTicker updates.
func (e *BncExchange) SubscribeTickerStream(ctx context.Context, onEvent func(types.TickerEvent)) (stream.Stream, error) {
	endpoint := fmt.Sprintf("%s/!miniTicker@arr", wsBaseURL())
	bncStream, err := NewStream(ctx, types.StreamTicker, endpoint)
	if err != nil {
		return nil, err
	}
	doneC, stopC, err := bncStream.Connect(func(msg []byte) {
		events, err := parseMiniTickerEvents(msg)
		if err != nil {
			e.logger.Errorf("fail to parse ticker event: %v", err)
			return
		}
		for _, evt := range events {
			onEvent(evt)
		}
	})
	if err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			close(stopC)
		case <-doneC:
		}
	}()
	return bncStream, nil
}

func wsBaseURL() string {
	if binance.UseTestnet {
		return "wss://testnet.binance.vision/ws"
	}
	return "wss://stream.binance.com:9443/ws"
}
