package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Zane-/cryptobot/pkg/types"
)

func writeConfigFile(t *testing.T, name, content string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	writeConfigFile(t, "cryptobot.yaml", `
exchange:
  name: binance
  envPrefix: BINANCE
`)

	cfg, err := LoadConfig(types.EnvLocal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Retry.NetworkAttempts != 4 {
		t.Errorf("expected default networkAttempts 4, got %d", cfg.Retry.NetworkAttempts)
	}
	if cfg.Retry.NetworkIntervalSec != 2 {
		t.Errorf("expected default networkIntervalSec 2, got %d", cfg.Retry.NetworkIntervalSec)
	}
	if cfg.Retry.MaxAutoIterations != 5 {
		t.Errorf("expected default maxAutoIterations 5, got %d", cfg.Retry.MaxAutoIterations)
	}
	if cfg.Journal.Path == "" {
		t.Error("expected a default journal path")
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigFull(t *testing.T) {
	writeConfigFile(t, "cryptobot.yaml", `
exchange:
  name: binance
  envPrefix: BNC_TEST
retry:
  networkAttempts: 6
  networkIntervalSec: 3
  maxAutoIterations: 2
cancel:
  quote: ETH
  exclude: [BNB, BTC]
journal:
  path: /tmp/journal.msgpack
  s3:
    region: us-east-1
    bucket: bot-backups
    key: journal.msgpack
server:
  port: 8080
`)

	cfg, err := LoadConfig(types.EnvLocal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Exchange.EnvPrefix != "BNC_TEST" {
		t.Errorf("unexpected envPrefix %q", cfg.Exchange.EnvPrefix)
	}
	if cfg.Retry.NetworkAttempts != 6 || cfg.Retry.NetworkIntervalSec != 3 || cfg.Retry.MaxAutoIterations != 2 {
		t.Errorf("unexpected retry config: %+v", cfg.Retry)
	}
	if got := cfg.Retry.NetworkInterval().Seconds(); got != 3 {
		t.Errorf("expected 3s interval, got %vs", got)
	}
	if cfg.Cancel.Quote != "ETH" || len(cfg.Cancel.Exclude) != 2 {
		t.Errorf("unexpected cancel config: %+v", cfg.Cancel)
	}
	if cfg.Journal.S3 == nil || cfg.Journal.S3.Bucket != "bot-backups" {
		t.Errorf("unexpected journal config: %+v", cfg.Journal)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("unexpected port %d", cfg.Server.Port)
	}
}

func TestLoadConfigRejectsMissingExchange(t *testing.T) {
	writeConfigFile(t, "cryptobot.yaml", `
server:
  port: 8080
`)
	if _, err := LoadConfig(types.EnvLocal); err == nil {
		t.Fatal("expected an error for missing exchange config")
	}
}

func TestLoadConfigRejectsSubSecondInterval(t *testing.T) {
	writeConfigFile(t, "cryptobot.yaml", `
exchange:
  name: binance
  envPrefix: BINANCE
retry:
  networkIntervalSec: -1
`)
	if _, err := LoadConfig(types.EnvLocal); err == nil {
		t.Fatal("expected an error for sub-second retry interval")
	}
}

func TestLoadConfigRejectsIncompleteS3(t *testing.T) {
	writeConfigFile(t, "cryptobot.yaml", `
exchange:
  name: binance
  envPrefix: BINANCE
journal:
  s3:
    region: us-east-1
`)
	if _, err := LoadConfig(types.EnvLocal); err == nil {
		t.Fatal("expected an error for incomplete s3 config")
	}
}
