package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// TokenService submits burn and mint transactions against the token
// contract and waits for them to be mined before reporting success.
type TokenService struct {
	logger     *logrus.Logger
	rpc        *ethclient.Client
	contract   *bind.BoundContract
	signer     *bind.TransactOpts
	signerAddr ecommon.Address
}

func newTokenService(
	logger *logrus.Logger,
	rpc *ethclient.Client,
	contract *bind.BoundContract,
	signer *bind.TransactOpts,
) *TokenService {
	return &TokenService{
		logger:     logger.WithField("pkg", "evm.TokenService").Logger,
		rpc:        rpc,
		contract:   contract,
		signer:     signer,
		signerAddr: signer.From,
	}
}

// Burn destroys amount base units from the signer's balance. A submitted
// but unmined transaction is not a success; the call returns only after
// the receipt confirms execution.
func (s *TokenService) Burn(ctx context.Context, amount *big.Int) (string, error) {
	opts := *s.signer
	opts.Context = ctx

	tx, err := s.contract.Transact(&opts, "burn", amount)
	if err != nil {
		return "", fmt.Errorf("failed to send burn transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"txHash": tx.Hash().Hex(),
		"from":   s.signerAddr.Hex(),
		"amount": amount.String(),
	}).Info("burn transaction sent, waiting for it to be mined")

	if err := s.waitMined(ctx, tx); err != nil {
		return "", fmt.Errorf("burn %s: %w", tx.Hash().Hex(), err)
	}
	return tx.Hash().Hex(), nil
}

// Mint creates amount base units owned by the recipient.
func (s *TokenService) Mint(ctx context.Context, to ecommon.Address, amount *big.Int) (string, error) {
	opts := *s.signer
	opts.Context = ctx

	tx, err := s.contract.Transact(&opts, "mint", to, amount)
	if err != nil {
		return "", fmt.Errorf("failed to send mint transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"txHash": tx.Hash().Hex(),
		"to":     to.Hex(),
		"amount": amount.String(),
	}).Info("mint transaction sent, waiting for it to be mined")

	if err := s.waitMined(ctx, tx); err != nil {
		return "", fmt.Errorf("mint %s: %w", tx.Hash().Hex(), err)
	}
	return tx.Hash().Hex(), nil
}

func (s *TokenService) waitMined(ctx context.Context, tx *types.Transaction) error {
	receipt, err := bind.WaitMined(ctx, s.rpc, tx)
	if err != nil {
		return fmt.Errorf("failed to wait for transaction: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction reverted in block %s", receipt.BlockNumber)
	}
	return nil
}
