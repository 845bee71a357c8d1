package sui

import (
	"context"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
)

type coinQuerier interface {
	GetOwnedCoins(ctx context.Context, owner, coinType string) ([]CoinObject, error)
}

type txSubmitter interface {
	ExecuteTransactionBlock(ctx context.Context, txBytes, signature string) (string, error)
	WaitForCheckpoint(ctx context.Context, digest string) error
}

// BurnService destroys base units from an owner's coin objects.
type BurnService struct {
	logger    *logrus.Logger
	querier   coinQuerier
	submitter txSubmitter
	signer    Signer
	cfg       PackageConfig
}

func newBurnService(
	logger *logrus.Logger,
	querier coinQuerier,
	submitter txSubmitter,
	signer Signer,
	cfg PackageConfig,
) *BurnService {
	return &BurnService{
		logger:    logger.WithField("pkg", "sui.BurnService").Logger,
		querier:   querier,
		submitter: submitter,
		signer:    signer,
		cfg:       cfg,
	}
}

// Burn selects coins covering amount, builds one transaction that merges
// and splits them as needed and burns the exact amount, then waits for
// checkpoint confirmation. The returned digest is only valid once the
// transaction is finalized.
func (s *BurnService) Burn(ctx context.Context, owner string, amount *big.Int) (string, error) {
	coins, err := s.querier.GetOwnedCoins(ctx, owner, s.cfg.CoinType)
	if err != nil {
		return "", fmt.Errorf("failed to list owned coins: %w", err)
	}

	plan, err := SelectCoins(coins, amount)
	if err != nil {
		return "", fmt.Errorf("failed to select coins: %w", err)
	}

	burn := &BurnCall{
		PackageID:   s.cfg.PackageID,
		TreasuryCap: s.cfg.TreasuryCapID,
		SpendCoin:   plan.SpendID,
	}
	if len(plan.MergeIDs) > 1 {
		burn.Merge = plan.MergeIDs[1:]
	}
	if !plan.ExactSpend {
		if !plan.SplitAmount.IsUint64() {
			return "", fmt.Errorf("split amount %s exceeds u64", plan.SplitAmount)
		}
		burn.SplitAmount = plan.SplitAmount.Uint64()
	}

	s.logger.WithFields(logrus.Fields{
		"owner":     owner,
		"amount":    amount.String(),
		"mergeSet":  len(plan.MergeIDs),
		"spendCoin": plan.SpendID,
		"exact":     plan.ExactSpend,
	}).Info("burning coins")

	txBytes, signature, err := s.signer.SignTransaction(ctx, TransactionData{
		Sender: owner,
		Burn:   burn,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign burn transaction: %w", err)
	}

	digest, err := s.submitter.ExecuteTransactionBlock(ctx, txBytes, signature)
	if err != nil {
		return "", fmt.Errorf("failed to execute burn transaction: %w", err)
	}

	if err := s.submitter.WaitForCheckpoint(ctx, digest); err != nil {
		return "", fmt.Errorf("failed to confirm burn transaction: %w", err)
	}

	s.logger.WithField("digest", digest).Info("burn confirmed")
	return digest, nil
}
