package bnc

import (
	"context"
	"fmt"

	"github.com/Zane-/cryptobot/pkg/market"
	"github.com/Zane-/cryptobot/pkg/types"
	"github.com/Zane-/cryptobot/pkg/utils"
)

// GetMarket resolves the precision and limit rules for a pair. The first
// lookup hits the exchange-info endpoint; the result is cached for the
// life of the process.
func (e *BncExchange) GetMarket(ctx context.Context, pair types.Pair) (*market.Market, error) {
	e.mu.RLock()
	if mkt, ok := e.markets[pair.Symbol()]; ok {
		e.mu.RUnlock()
		return mkt, nil
	}
	e.mu.RUnlock()

	mkt, err := e.loadMarket(ctx, pair)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.markets[pair.Symbol()] = mkt
	e.mu.Unlock()
	return mkt, nil
}

func (e *BncExchange) loadMarket(ctx context.Context, pair types.Pair) (*market.Market, error) {
	info, err := e.client.NewExchangeInfoService().Symbol(pair.Symbol()).Do(ctx)
	if err != nil {
		return nil, classifyErr("GetMarket", err)
	}
	for _, symbol := range info.Symbols {
		if symbol.Symbol != pair.Symbol() {
			continue
		}
		mkt := market.New(types.ExchangeBinance, pair)
		for _, filter := range symbol.Filters {
			switch filter["filterType"] {
			case "LOT_SIZE":
				stepSize, err := extractFilterStr(filter, "stepSize")
				if err != nil {
					return nil, err
				}
				mkt.AmountPrecision = market.PrecisionFromStep(stepSize)
				if mkt.StepSize, err = utils.StrToFloat(stepSize); err != nil {
					return nil, err
				}
				if mkt.MinQty, err = extractFilter(filter, "minQty"); err != nil {
					return nil, err
				}
				if mkt.MaxQty, err = extractFilter(filter, "maxQty"); err != nil {
					return nil, err
				}
			case "PRICE_FILTER":
				tickSize, err := extractFilterStr(filter, "tickSize")
				if err != nil {
					return nil, err
				}
				mkt.PricePrecision = market.PrecisionFromStep(tickSize)
				if mkt.TickSize, err = utils.StrToFloat(tickSize); err != nil {
					return nil, err
				}
			case "MIN_NOTIONAL", "NOTIONAL": // key renamed across exchange-info revisions
				if mkt.MinNotional, err = extractFilter(filter, "minNotional"); err != nil {
					return nil, err
				}
			}
		}
		return mkt, nil
	}
	return nil, &types.TradeError{
		Kind:       types.ErrConfiguration,
		Pair:       pair,
		Constraint: "symbol not listed on exchange",
	}
}

func extractFilterStr(filter map[string]interface{}, key string) (string, error) {
	value, ok := filter[key].(string)
	if !ok {
		return "", fmt.Errorf("bad string assertion: %s", key)
	}
	return value, nil
}

func extractFilter(filter map[string]interface{}, key string) (float64, error) {
	value, err := extractFilterStr(filter, key)
	if err != nil {
		return 0, err
	}
	return utils.StrToFloat(value)
}
