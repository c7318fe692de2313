package order

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Zane-/cryptobot/pkg/market"
	"github.com/Zane-/cryptobot/pkg/types"
)

const (
	defaultMaxAutoIterations = 5
	defaultNetworkAttempts   = 4
	defaultNetworkInterval   = 2 * time.Second
)

// ExecutorConfig bounds the two independent retry budgets of a submission.
// Network failures say nothing about order validity and are retried with
// the quantity unchanged; validity failures mean the computed amount is
// stale and gets nudged, but only a few times; unbounded nudging risks
// runaway orders.
type ExecutorConfig struct {
	MaxAutoIterations int           // quantity-adjustment attempts
	NetworkAttempts   int           // unchanged-resubmit attempts
	NetworkInterval   time.Duration // fixed sleep between network retries
}

func (c *ExecutorConfig) applyDefaults() {
	if c.MaxAutoIterations <= 0 {
		c.MaxAutoIterations = defaultMaxAutoIterations
	}
	if c.NetworkAttempts <= 0 {
		c.NetworkAttempts = defaultNetworkAttempts
	}
	if c.NetworkInterval <= 0 {
		c.NetworkInterval = defaultNetworkInterval
	}
}

// Executor drives an order intent through sizing, submission, and the
// retry/adjust state machine until it lands on the exchange or a budget
// runs out.
type Executor struct {
	sizer  *Sizer
	placer OrderPlacer
	data   MarketData
	cfg    ExecutorConfig
	logger *log.Entry
}

func NewExecutor(sizer *Sizer, placer OrderPlacer, data MarketData, cfg ExecutorConfig) *Executor {
	cfg.applyDefaults()
	return &Executor{
		sizer:  sizer,
		placer: placer,
		data:   data,
		cfg:    cfg,
		logger: log.WithFields(log.Fields{"component": "executor"}),
	}
}

// Submit sizes the intent and places it, recovering from the known failure
// kinds within the configured budgets.
func (e *Executor) Submit(ctx context.Context, it Intent) (*types.OrderRecord, error) {
	qty, err := e.sizer.Size(ctx, it)
	if err != nil {
		return nil, err
	}
	return e.SubmitQty(ctx, it, qty)
}

// SubmitQty places an already-sized quantity, driving the retry/adjust
// state machine. Exposed for callers that size out of band.
func (e *Executor) SubmitQty(ctx context.Context, it Intent, qty float64) (*types.OrderRecord, error) {
	mkt, err := e.data.Market(ctx, it.Pair)
	if err != nil {
		return nil, err
	}

	autoLeft := e.cfg.MaxAutoIterations
	netLeft := e.cfg.NetworkAttempts
	for {
		rec, err := e.placer.CreateOrder(ctx, types.OrderRequest{
			Pair:     it.Pair,
			Side:     it.Side,
			Type:     it.orderType(),
			Quantity: qty,
			Price:    it.Price,
		})
		if err == nil {
			return rec, nil
		}

		switch types.KindOf(err) {
		case types.ErrInvalidOrder:
			// usually the price moved between sizing and submission
			if !it.AutoAdjust {
				return nil, err
			}
			autoLeft--
			if autoLeft <= 0 {
				return nil, e.exhausted(it, qty, "auto-adjust", e.cfg.MaxAutoIterations, err)
			}
			qty = bumpUp(qty, mkt.AmountPrecision)
			e.logger.WithFields(log.Fields{"pair": it.Pair.String(), "qty": qty}).
				Warn("order invalid, bumping quantity up")

		case types.ErrInsufficientFunds:
			// balance changed underneath us; an expected steady-state race
			if !it.AutoAdjust {
				return nil, err
			}
			autoLeft--
			if autoLeft <= 0 {
				return nil, e.exhausted(it, qty, "auto-adjust", e.cfg.MaxAutoIterations, err)
			}
			qty = stepDown(qty, mkt.AmountPrecision)
			e.logger.WithFields(log.Fields{"pair": it.Pair.String(), "qty": qty}).
				Warn("insufficient funds, stepping quantity down")

		case types.ErrNetwork:
			netLeft--
			if netLeft <= 0 {
				return nil, e.exhausted(it, qty, "network", e.cfg.NetworkAttempts, err)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.cfg.NetworkInterval):
			}

		default:
			return nil, err
		}
	}
}

// CancelOpenOrders cancels every open order on the pair; returns how many.
func (e *Executor) CancelOpenOrders(ctx context.Context, pair types.Pair) (int, error) {
	orders, err := e.placer.GetOpenOrders(ctx, pair)
	if err != nil {
		return 0, err
	}
	for i, o := range orders {
		if err := e.placer.CancelOrder(ctx, pair, o.ID); err != nil {
			return i, err
		}
	}
	return len(orders), nil
}

// CancelScope names the assets a bulk cancel sweeps. The scope is explicit
// caller configuration; nothing is excluded implicitly.
type CancelScope struct {
	Quote   string   // quote asset the swept pairs trade against
	Exclude []string // assets to skip
}

// CancelAllOrders cancels open orders on every nonzero-balance asset inside
// the scope. Assets without a market against the scope quote are skipped.
func (e *Executor) CancelAllOrders(ctx context.Context, scope CancelScope) error {
	if scope.Quote == "" {
		return &types.TradeError{
			Kind:       types.ErrConfiguration,
			Constraint: "cancel scope requires a quote asset",
		}
	}
	excluded := make(map[string]bool, len(scope.Exclude))
	for _, asset := range scope.Exclude {
		excluded[asset] = true
	}

	balances, err := e.data.NonzeroBalances(ctx)
	if err != nil {
		return err
	}
	for asset := range balances {
		if asset == scope.Quote || excluded[asset] {
			continue
		}
		pair := types.Pair{Base: asset, Quote: scope.Quote}
		if _, err := e.CancelOpenOrders(ctx, pair); err != nil {
			if types.KindOf(err) == types.ErrConfiguration {
				continue // asset has no market against the scope quote
			}
			return err
		}
	}
	return nil
}

// Liquidate cancels any outstanding orders on the pair and market-sells the
// full position. This is the cleanup obligation for interrupted strategies:
// an aborted process must not leave an orphaned limit order behind.
func (e *Executor) Liquidate(ctx context.Context, pair types.Pair) (*types.OrderRecord, error) {
	canceled, err := e.CancelOpenOrders(ctx, pair)
	if err != nil {
		return nil, err
	}
	if canceled > 0 {
		e.logger.WithFields(log.Fields{"pair": pair.String(), "canceled": canceled}).
			Info("canceled outstanding orders before liquidation")
	}
	return e.Submit(ctx, Intent{
		Pair:       pair,
		Side:       types.OrderSideSell,
		Percent:    100,
		AutoAdjust: true,
	})
}

func (e *Executor) exhausted(it Intent, qty float64, budget string, attempts int, err error) error {
	e.logger.WithFields(log.Fields{
		"op":       "Submit",
		"pair":     it.Pair.String(),
		"side":     it.Side,
		"qty":      qty,
		"budget":   budget,
		"attempts": attempts,
	}).Errorf("submission retry budget exhausted: %v", err)
	return &types.TradeError{
		Kind:       types.ErrSubmissionFailed,
		Pair:       it.Pair,
		Side:       it.Side,
		Amount:     qty,
		Constraint: fmt.Sprintf("%s budget exhausted after %d attempts", budget, attempts),
		Err:        err,
	}
}

// bumpUp raises a rejected quantity by ~1%, or one whole unit on a
// zero-precision market where 1% would round away.
func bumpUp(qty float64, precision int32) float64 {
	if precision == 0 {
		return qty + 1
	}
	return market.RoundUp(qty*1.01, precision)
}

// stepDown cuts an unaffordable quantity by ~1%, or one whole unit on a
// zero-precision market.
func stepDown(qty float64, precision int32) float64 {
	if precision == 0 {
		if qty > 1 {
			return qty - 1
		}
		return qty
	}
	return market.RoundDown(qty*0.99, precision)
}
