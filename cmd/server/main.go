package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/ibtlabs/ibt-bridge/internal/bridge"
	"github.com/ibtlabs/ibt-bridge/internal/evm"
	"github.com/ibtlabs/ibt-bridge/internal/graceful"
	"github.com/ibtlabs/ibt-bridge/internal/logging"
	"github.com/ibtlabs/ibt-bridge/internal/metrics"
	"github.com/ibtlabs/ibt-bridge/internal/server"
	"github.com/ibtlabs/ibt-bridge/internal/sui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := newConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewLogger(cfg.LogFormat)

	metricsServer := metrics.StartMetricsServer(
		cfg.Metrics,
		[]string{metrics.ServiceHTTP, metrics.ServiceBridge},
		logger,
	)
	defer func() {
		if err := metricsServer.Stop(ctx); err != nil {
			logger.Errorf("failed to stop metrics server: %v", err)
		}
	}()

	ethNetwork, err := evm.NewNetwork(
		ctx,
		cfg.Eth.RpcURL,
		cfg.Eth.TokenAddress,
		cfg.Eth.SignerKey,
		logger,
	)
	if err != nil {
		logger.Fatalf("failed to initialize Ethereum network: %v", err)
	}
	logger.Infof("initialized Ethereum network, signer %s", ethNetwork.SignerAddress())

	suiNetwork, err := sui.NewNetwork(
		ctx,
		cfg.Sui.RpcURL,
		sui.NewWalletSigner(cfg.Sui.WalletURL),
		sui.PackageConfig{
			PackageID:     cfg.Sui.PackageID,
			TreasuryCapID: sui.ObjectID(cfg.Sui.TreasuryCapID),
			CoinType:      cfg.Sui.CoinType,
		},
		logger,
	)
	if err != nil {
		logger.Fatalf("failed to initialize Sui network: %v", err)
	}
	logger.Infof("initialized Sui network, coin decimals %d", suiNetwork.Decimals())

	bridgeService := bridge.NewService(logger, ethNetwork, suiNetwork)

	var asynqClient *asynq.Client
	if cfg.Redis.URI != "" {
		redisOpt, er := asynq.ParseRedisURI(cfg.Redis.URI)
		if er != nil {
			logger.Fatalf("failed to parse redis URI: %v", er)
		}
		asynqClient = asynq.NewClient(redisOpt)
		defer asynqClient.Close()
	} else {
		logger.Warn("no redis URI configured, async bridging disabled")
	}

	var srv *server.Server
	if asynqClient != nil {
		srv = server.New(logger, bridgeService, asynqClient, cfg.Server)
	} else {
		srv = server.New(logger, bridgeService, nil, cfg.Server)
	}

	graceful.CancelOnSignal(cancel, logger)

	if err := srv.Start(ctx); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
