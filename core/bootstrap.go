package core

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"

	"github.com/Zane-/cryptobot/config"
	"github.com/Zane-/cryptobot/pkg/exchange"
	"github.com/Zane-/cryptobot/pkg/gateway"
	"github.com/Zane-/cryptobot/pkg/journal"
	"github.com/Zane-/cryptobot/pkg/order"
	"github.com/Zane-/cryptobot/pkg/retry"
	"github.com/Zane-/cryptobot/pkg/s3client"
	"github.com/Zane-/cryptobot/pkg/types"
)

// App wires the order-execution core together: one exchange client per
// process, passed explicitly into every component. No hidden globals, so
// every piece can take a test double.
type App struct {
	Config   *config.Config
	Exchange exchange.Exchange
	Gateway  *gateway.Gateway
	Sizer    *order.Sizer
	Executor *order.Executor
	Swapper  *order.Swapper
	Journal  *journal.Journal

	s3 *s3.S3
}

func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	log.Info("🦾 Bootstrapping...")

	ex, err := exchange.New(cfg.Exchange)
	if err != nil {
		return nil, fmt.Errorf("fail to init exchange: %w", err)
	}
	log.Infof("exchange '%v' ready", ex.Name())

	policy := retry.Policy{
		Attempts: cfg.Retry.NetworkAttempts,
		Interval: cfg.Retry.NetworkInterval(),
		Retryable: func(err error) bool {
			return types.KindOf(err) == types.ErrNetwork
		},
	}
	gw := gateway.New(ex, policy)

	sizer := order.NewSizer(gw)
	executor := order.NewExecutor(sizer, ex, gw, order.ExecutorConfig{
		MaxAutoIterations: cfg.Retry.MaxAutoIterations,
		NetworkAttempts:   cfg.Retry.NetworkAttempts,
		NetworkInterval:   cfg.Retry.NetworkInterval(),
	})
	swapper := order.NewSwapper(executor, gw)

	jnl, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("fail to open journal: %w", err)
	}

	app := &App{
		Config:   cfg,
		Exchange: ex,
		Gateway:  gw,
		Sizer:    sizer,
		Executor: executor,
		Swapper:  swapper,
		Journal:  jnl,
	}

	if s3Cfg := cfg.Journal.S3; s3Cfg != nil {
		client, err := s3client.Init(os.Getenv("AWS_ACCESS_KEY"), os.Getenv("AWS_SECRET_KEY"), s3Cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("fail to init s3 backup: %w", err)
		}
		app.s3 = client
	}
	return app, nil
}

// Shutdown flushes the journal to disk (and S3 when configured). Called on
// the way out regardless of why the process is stopping.
func (a *App) Shutdown() {
	if err := a.Journal.Snapshot(); err != nil {
		log.Errorf("fail to snapshot journal: %v", err)
	}
	if a.s3 != nil {
		s3Cfg := a.Config.Journal.S3
		if err := a.Journal.Backup(a.s3, s3Cfg.Bucket, s3Cfg.Key); err != nil {
			log.Errorf("fail to back up journal: %v", err)
		}
	}
}
