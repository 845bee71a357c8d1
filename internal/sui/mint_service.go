package sui

import (
	"context"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
)

// MintService mints base units to a recipient using the treasury cap.
type MintService struct {
	logger    *logrus.Logger
	submitter txSubmitter
	signer    Signer
	cfg       PackageConfig
}

func newMintService(
	logger *logrus.Logger,
	submitter txSubmitter,
	signer Signer,
	cfg PackageConfig,
) *MintService {
	return &MintService{
		logger:    logger.WithField("pkg", "sui.MintService").Logger,
		submitter: submitter,
		signer:    signer,
		cfg:       cfg,
	}
}

// Mint creates amount base units owned by recipient and waits for
// checkpoint confirmation.
func (s *MintService) Mint(ctx context.Context, recipient string, amount *big.Int) (string, error) {
	if !amount.IsUint64() {
		return "", fmt.Errorf("mint amount %s exceeds u64", amount)
	}

	s.logger.WithFields(logrus.Fields{
		"recipient": recipient,
		"amount":    amount.String(),
	}).Info("minting coins")

	txBytes, signature, err := s.signer.SignTransaction(ctx, TransactionData{
		Sender: recipient,
		Mint: &MintCall{
			PackageID:   s.cfg.PackageID,
			TreasuryCap: s.cfg.TreasuryCapID,
			Amount:      amount.Uint64(),
			Recipient:   recipient,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign mint transaction: %w", err)
	}

	digest, err := s.submitter.ExecuteTransactionBlock(ctx, txBytes, signature)
	if err != nil {
		return "", fmt.Errorf("failed to execute mint transaction: %w", err)
	}

	if err := s.submitter.WaitForCheckpoint(ctx, digest); err != nil {
		return "", fmt.Errorf("failed to confirm mint transaction: %w", err)
	}

	s.logger.WithField("digest", digest).Info("mint confirmed")
	return digest, nil
}
