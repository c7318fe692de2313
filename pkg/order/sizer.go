package order

import (
	"context"
	"fmt"

	"github.com/Zane-/cryptobot/pkg/market"
	"github.com/Zane-/cryptobot/pkg/types"
)

// Sizer converts a percentage-of-balance intent into a concrete,
// exchange-valid order quantity. Sell quantities round DOWN so the account
// is never oversold; the minimum-amount threshold rounds UP so rounding can
// never land under the exchange floor. Getting either direction wrong
// surfaces later as spurious insufficient-funds or invalid-order rejects.
type Sizer struct {
	data MarketData
}

func NewSizer(data MarketData) *Sizer {
	return &Sizer{data: data}
}

// Size dispatches on the intent side.
func (s *Sizer) Size(ctx context.Context, it Intent) (float64, error) {
	if it.Side == types.OrderSideSell {
		return s.SizeSell(ctx, it.Pair, it.Percent, it.Price, it.AutoAdjust)
	}
	return s.SizeBuy(ctx, it.Pair, it.Percent, it.Price, it.AutoAdjust)
}

// SizeSell sizes a sell of percent% of the free base-asset balance.
// limitPrice 0 means a market order priced off the current bid.
func (s *Sizer) SizeSell(ctx context.Context, pair types.Pair, percent, limitPrice float64, autoAdjust bool) (float64, error) {
	mkt, free, ref, err := s.resolve(ctx, pair, pair.Base, percent, limitPrice, types.OrderSideSell)
	if err != nil {
		return 0, err
	}

	amount := market.RoundDown(free*percent/100, mkt.AmountPrecision)
	minAmount := market.RoundUp(mkt.MinNotional/ref, mkt.AmountPrecision)
	if amount >= minAmount {
		return amount, nil
	}

	if !autoAdjust {
		return 0, &types.TradeError{
			Kind:       types.ErrInvalidOrder,
			Pair:       pair,
			Side:       types.OrderSideSell,
			Amount:     amount,
			Constraint: fmt.Sprintf("below minimum notional %v %s (need >= %v %s)", mkt.MinNotional, pair.Quote, minAmount, pair.Base),
		}
	}
	if minAmount > free {
		return 0, &types.TradeError{
			Kind:       types.ErrInsufficientFunds,
			Pair:       pair,
			Side:       types.OrderSideSell,
			Amount:     minAmount,
			Constraint: fmt.Sprintf("minimum amount %v exceeds free balance %v %s", minAmount, free, pair.Base),
		}
	}
	return minAmount, nil
}

// SizeBuy sizes a buy spending percent% of the free quote-asset balance.
// limitPrice 0 means a market order priced off the current ask.
func (s *Sizer) SizeBuy(ctx context.Context, pair types.Pair, percent, limitPrice float64, autoAdjust bool) (float64, error) {
	mkt, freeQuote, ref, err := s.resolve(ctx, pair, pair.Quote, percent, limitPrice, types.OrderSideBuy)
	if err != nil {
		return 0, err
	}

	amount := market.RoundDown(freeQuote*percent/100/ref, mkt.AmountPrecision)
	minAmount := market.RoundUp(mkt.MinNotional/ref, mkt.AmountPrecision)
	if amount >= minAmount {
		return amount, nil
	}

	if !autoAdjust {
		return 0, &types.TradeError{
			Kind:       types.ErrInvalidOrder,
			Pair:       pair,
			Side:       types.OrderSideBuy,
			Amount:     amount,
			Constraint: fmt.Sprintf("below minimum notional %v %s (need >= %v %s)", mkt.MinNotional, pair.Quote, minAmount, pair.Base),
		}
	}
	if minAmount*ref > freeQuote {
		return 0, &types.TradeError{
			Kind:       types.ErrInsufficientFunds,
			Pair:       pair,
			Side:       types.OrderSideBuy,
			Amount:     minAmount,
			Constraint: fmt.Sprintf("minimum cost %v exceeds free balance %v %s", minAmount*ref, freeQuote, pair.Quote),
		}
	}
	return minAmount, nil
}

// resolve fetches the market rules, the free balance of the funding asset,
// and the reference price used for notional math.
func (s *Sizer) resolve(ctx context.Context, pair types.Pair, fundingAsset string, percent, limitPrice float64, side types.OrderSide) (*market.Market, float64, float64, error) {
	if percent <= 0 || percent > 100 {
		return nil, 0, 0, &types.TradeError{
			Kind:       types.ErrConfiguration,
			Pair:       pair,
			Side:       side,
			Constraint: fmt.Sprintf("percentage %v out of range (0,100]", percent),
		}
	}

	mkt, err := s.data.Market(ctx, pair)
	if err != nil {
		return nil, 0, 0, err
	}
	free, err := s.data.FreeBalance(ctx, fundingAsset)
	if err != nil {
		return nil, 0, 0, err
	}

	ref := limitPrice
	if ref == 0 {
		ticker, err := s.data.Ticker(ctx, pair)
		if err != nil {
			return nil, 0, 0, err
		}
		if side == types.OrderSideSell {
			ref = ticker.Bid
		} else {
			ref = ticker.Ask
		}
		if ref == 0 {
			ref = ticker.Last
		}
	}
	if ref <= 0 {
		return nil, 0, 0, &types.TradeError{
			Kind:       types.ErrConfiguration,
			Pair:       pair,
			Side:       side,
			Constraint: "no reference price available",
		}
	}
	return mkt, free, ref, nil
}
