package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/ibtlabs/ibt-bridge/internal/bridge"
	"github.com/ibtlabs/ibt-bridge/internal/evm"
	"github.com/ibtlabs/ibt-bridge/internal/graceful"
	"github.com/ibtlabs/ibt-bridge/internal/health"
	"github.com/ibtlabs/ibt-bridge/internal/logging"
	"github.com/ibtlabs/ibt-bridge/internal/metrics"
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
		[]string{metrics.ServiceBridge},
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

	consumer := bridge.NewConsumer(logger, bridge.NewService(logger, ethNetwork, suiNetwork))

	redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URI)
	if err != nil {
		logger.Fatalf("failed to parse redis URI: %v", err)
	}

	worker := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Logger:      logger,
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				bridge.QueueName: 10,
			},
		},
	)

	healthServer := health.New(cfg.HealthPort)
	go func() {
		if er := healthServer.Start(ctx, logger); er != nil {
			logger.Errorf("health server failed: %v", er)
		}
	}()

	graceful.CancelOnSignal(cancel, logger)
	go func() {
		<-ctx.Done()
		worker.Shutdown()
	}()

	mux := asynq.NewServeMux()
	mux.HandleFunc(bridge.TypeBridgeExecute, consumer.Handle)
	if err := worker.Run(mux); err != nil {
		logger.Fatalf("failed to run worker: %v", err)
	}
}
