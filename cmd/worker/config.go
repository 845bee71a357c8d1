package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/ibtlabs/ibt-bridge/internal/logging"
	"github.com/ibtlabs/ibt-bridge/internal/metrics"
)

type config struct {
	LogFormat   logging.LogFormat `envconfig:"LOG_FORMAT" default:"text"`
	HealthPort  int               `envconfig:"HEALTH_PORT" default:"8081"`
	Concurrency int               `envconfig:"CONCURRENCY" default:"10"`
	Metrics     metrics.Config
	Redis       redisConfig
	Eth         ethConfig
	Sui         suiConfig
}

type redisConfig struct {
	URI string `required:"true"`
}

type ethConfig struct {
	RpcURL       string `envconfig:"RPC_URL" required:"true"`
	TokenAddress string `envconfig:"TOKEN_ADDRESS" required:"true"`
	SignerKey    string `envconfig:"SIGNER_KEY" required:"true"`
}

type suiConfig struct {
	RpcURL        string `envconfig:"RPC_URL" required:"true"`
	WalletURL     string `envconfig:"WALLET_URL" required:"true"`
	PackageID     string `envconfig:"PACKAGE_ID" required:"true"`
	TreasuryCapID string `envconfig:"TREASURY_CAP_ID" required:"true"`
	CoinType      string `envconfig:"COIN_TYPE" required:"true"`
}

func newConfig() (config, error) {
	var cfg config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return config{}, fmt.Errorf("failed to process env var: %w", err)
	}
	return cfg, nil
}
