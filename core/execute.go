package core

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/Zane-/cryptobot/pkg/order"
	"github.com/Zane-/cryptobot/pkg/types"
)

// Execute places one sized-from-intent order and records the fill in the
// session journal.
func (a *App) Execute(ctx context.Context, it order.Intent) (*types.OrderRecord, error) {
	rec, err := a.Executor.Submit(ctx, it)
	if err != nil {
		return nil, err
	}
	a.Journal.Append(rec)
	return rec, nil
}

// ExecuteSwap runs a sell-then-buy swap and records both legs. A sell that
// landed before a failed buy is still journaled.
func (a *App) ExecuteSwap(ctx context.Context, sellPair, buyPair types.Pair, percent float64, autoAdjust bool) (*types.OrderRecord, *types.OrderRecord, error) {
	sellRec, buyRec, err := a.Swapper.Swap(ctx, sellPair, buyPair, percent, autoAdjust)
	if sellRec != nil {
		a.Journal.Append(sellRec)
	}
	if buyRec != nil {
		a.Journal.Append(buyRec)
	}
	return sellRec, buyRec, err
}

// ExecuteLiquidation cancels outstanding orders on the pair, market-sells
// the full position, and records the exit.
func (a *App) ExecuteLiquidation(ctx context.Context, pair types.Pair) (*types.OrderRecord, error) {
	rec, err := a.Executor.Liquidate(ctx, pair)
	if err != nil {
		return nil, err
	}
	a.Journal.Append(rec)
	return rec, nil
}

// CancelAll sweeps open orders across every held asset inside the
// configured cancel scope.
func (a *App) CancelAll(ctx context.Context) error {
	return a.Executor.CancelAllOrders(ctx, order.CancelScope{
		Quote:   a.Config.Cancel.Quote,
		Exclude: a.Config.Cancel.Exclude,
	})
}

// knownQuotes is the quote-asset set used to split journal symbols back
// into pairs during cleanup.
func (a *App) knownQuotes() []string {
	quotes := []string{"USDT", "BUSD", "USDC", "BTC", "ETH", "BNB"}
	if q := a.Config.Cancel.Quote; q != "" {
		quotes = append([]string{q}, quotes...)
	}
	return quotes
}

// Cleanup liquidates every pair this session still has an open order on.
// An aborted process must not leave an orphaned limit order sitting on the
// book; pairs with nothing open are left alone.
func (a *App) Cleanup(ctx context.Context) {
	for _, symbol := range a.Journal.Symbols() {
		pair, err := types.PairFromSymbol(symbol, a.knownQuotes())
		if err != nil {
			log.Warnf("cleanup: %v", err)
			continue
		}
		open, err := a.Exchange.GetOpenOrders(ctx, pair)
		if err != nil {
			log.Errorf("cleanup: fail to check open orders on %s: %v", pair, err)
			continue
		}
		if len(open) == 0 {
			continue
		}
		log.Warnf("cleanup: %d open order(s) left on %s, liquidating", len(open), pair)
		if _, err := a.ExecuteLiquidation(ctx, pair); err != nil {
			log.Errorf("cleanup: fail to liquidate %s: %v", pair, err)
		}
	}
}
