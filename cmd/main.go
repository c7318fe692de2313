package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Zane-/cryptobot/config"
	"github.com/Zane-/cryptobot/core"
	"github.com/Zane-/cryptobot/pkg/types"
)

func main() {
	configureLog(config.Env.EnvName)

	// init context for graceful shutdown
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(config.Env.EnvName)
	if err != nil {
		log.Fatalf("fail to load config: %v", err)
	}

	// trap signal for graceful shutdown
	setupSignalHandler(cancel)

	// 📊 core: execution module
	app, err := core.Bootstrap(rootCtx, cfg)
	if err != nil {
		log.Panicf("fail to bootstrap app: %v", err)
	}
	defer app.Shutdown()

	// 🌩️ fiber: rest API module
	fApp := core.SetupFiberApp(app)
	go func() {
		<-rootCtx.Done()
		core.ShutdownFiberApp(fApp)
	}()
	if err := fApp.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Errorf("fiber stopped: %v", err)
	}

	// an interrupted session must not leave orphaned orders on the book
	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cleanupCancel()
	app.Cleanup(cleanupCtx)
}

func configureLog(envName types.EnvName) {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if envName == types.EnvLocal || envName == types.EnvDev {
		log.SetLevel(log.DebugLevel)
	}
}

func setupSignalHandler(cancel context.CancelFunc) {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigC
		log.Info("🚩 received shutdown signal")
		cancel()
	}()
}
