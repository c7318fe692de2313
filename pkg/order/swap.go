package order

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Zane-/cryptobot/pkg/types"
)

// Swapper composes two order executions into an atomic-in-intent currency
// swap: sell one position, spend the realized proceeds on another. The two
// legs are independent exchange calls with no transactional guarantee, so
// the sell must complete (and its result be read) before the buy is sized.
type Swapper struct {
	exec   *Executor
	data   MarketData
	logger *log.Entry
}

func NewSwapper(exec *Executor, data MarketData) *Swapper {
	return &Swapper{
		exec:   exec,
		data:   data,
		logger: log.WithFields(log.Fields{"component": "swapper"}),
	}
}

// Swap sells percent% of sellPair's base and buys buyPair's base with the
// realized proceeds. Both pairs must share a quote asset. If the sell leg
// fails terminally the buy leg is never attempted.
func (s *Swapper) Swap(ctx context.Context, sellPair, buyPair types.Pair, percent float64, autoAdjust bool) (*types.OrderRecord, *types.OrderRecord, error) {
	if sellPair.Quote != buyPair.Quote {
		return nil, nil, &types.TradeError{
			Kind:       types.ErrConfiguration,
			Pair:       sellPair,
			Constraint: fmt.Sprintf("swap legs must share a quote asset: %s vs %s", sellPair.Quote, buyPair.Quote),
		}
	}

	sellRec, err := s.exec.Submit(ctx, Intent{
		Pair:       sellPair,
		Side:       types.OrderSideSell,
		Percent:    percent,
		AutoAdjust: autoAdjust,
	})
	if err != nil {
		return nil, nil, err
	}

	// Size the buy leg from what the sell actually realized, not the
	// pre-trade estimate: market-order slippage makes the two differ, and
	// sizing from the estimate systematically over- or under-spends.
	proceeds := sellRec.Proceeds()
	freeQuote, err := s.data.FreeBalance(ctx, sellPair.Quote)
	if err != nil {
		return sellRec, nil, err
	}
	if proceeds <= 0 || freeQuote <= 0 {
		return sellRec, nil, &types.TradeError{
			Kind:       types.ErrInsufficientFunds,
			Pair:       buyPair,
			Side:       types.OrderSideBuy,
			Amount:     proceeds,
			Constraint: fmt.Sprintf("no %s proceeds available to buy with", sellPair.Quote),
		}
	}
	buyPercent := proceeds / freeQuote * 100
	if buyPercent > 100 {
		buyPercent = 100
	}

	s.logger.WithFields(log.Fields{
		"sell":     sellPair.String(),
		"buy":      buyPair.String(),
		"proceeds": proceeds,
		"percent":  buyPercent,
	}).Info("sell leg filled, sizing buy leg from realized proceeds")

	buyRec, err := s.exec.Submit(ctx, Intent{
		Pair:       buyPair,
		Side:       types.OrderSideBuy,
		Percent:    buyPercent,
		AutoAdjust: autoAdjust,
	})
	if err != nil {
		return sellRec, nil, err
	}
	return sellRec, buyRec, nil
}
