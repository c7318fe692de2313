package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Zane-/cryptobot/pkg/types"
)

type Config struct {
	Exchange *ExchangeConfig `yaml:"exchange"`
	Retry    RetryConfig     `yaml:"retry"`
	Cancel   CancelConfig    `yaml:"cancel"`
	Journal  JournalConfig   `yaml:"journal"`
	Server   ServerConfig    `yaml:"server"`
}

type ExchangeConfig struct {
	Name      types.ExchangeName `yaml:"name"`
	EnvPrefix string             `yaml:"envPrefix"` // prefix for <PREFIX>_API_KEY / <PREFIX>_API_SECRET
}

type RetryConfig struct {
	NetworkAttempts    int `yaml:"networkAttempts"`    // read + submit network budget
	NetworkIntervalSec int `yaml:"networkIntervalSec"` // fixed sleep between network retries
	MaxAutoIterations  int `yaml:"maxAutoIterations"`  // quantity-adjustment budget per submission
}

// NetworkInterval returns the retry sleep as a duration.
func (c RetryConfig) NetworkInterval() time.Duration {
	return time.Duration(c.NetworkIntervalSec) * time.Second
}

// CancelConfig scopes bulk cancellation. The assets swept are explicit
// configuration; there is no implicit reserve-asset carve-out.
type CancelConfig struct {
	Quote   string   `yaml:"quote"`   // quote asset used to form cancellable symbols
	Exclude []string `yaml:"exclude"` // assets never swept
}

type JournalConfig struct {
	Path string    `yaml:"path"`
	S3   *S3Config `yaml:"s3"` // optional offsite backup
}

type S3Config struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

func LoadConfig(envName types.EnvName) (*Config, error) {
	yamlFiles := map[types.EnvName]string{
		types.EnvLocal: "cryptobot.yaml",
		types.EnvDev:   "cryptobot.dev.yaml",
		types.EnvProd:  "cryptobot.prod.yaml",
	}
	fileName := yamlFiles[envName]
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("fail to load config file '%s': %w", fileName, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("fail to decode config file '%s': %w", fileName, err)
	}
	applyDefaults(&config)
	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Retry.NetworkAttempts == 0 {
		cfg.Retry.NetworkAttempts = 4
	}
	if cfg.Retry.NetworkIntervalSec == 0 {
		cfg.Retry.NetworkIntervalSec = 2
	}
	if cfg.Retry.MaxAutoIterations == 0 {
		cfg.Retry.MaxAutoIterations = 5
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "data/journal.msgpack"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
}

func validate(cfg *Config) error {
	if cfg.Exchange == nil || cfg.Exchange.Name == "" {
		return fmt.Errorf("exchange.name is required")
	}
	if cfg.Exchange.EnvPrefix == "" {
		return fmt.Errorf("exchange.envPrefix is required")
	}
	// a retry interval under a second hammers the exchange rate limiter
	if cfg.Retry.NetworkIntervalSec < 1 {
		return fmt.Errorf("retry.networkIntervalSec must be >= 1")
	}
	if cfg.Journal.S3 != nil && (cfg.Journal.S3.Bucket == "" || cfg.Journal.S3.Key == "") {
		return fmt.Errorf("journal.s3 requires bucket and key")
	}
	return nil
}
