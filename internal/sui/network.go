package sui

import (
	"context"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
)

// Network is the object-model ledger adapter. Burning assembles the exact
// amount from the owner's discrete coin objects; minting goes through the
// privileged treasury cap.
type Network struct {
	BurnSvc *BurnService
	MintSvc *MintService

	client   *Client
	decimals int
}

// NewNetwork connects to a Sui fullnode and resolves the coin's decimal
// scale from its on-chain metadata.
func NewNetwork(
	ctx context.Context,
	rpcURL string,
	signer Signer,
	cfg PackageConfig,
	logger *logrus.Logger,
) (*Network, error) {
	client := NewClient(rpcURL)

	decimals, err := client.GetCoinDecimals(ctx, cfg.CoinType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve coin decimals: %w", err)
	}

	return &Network{
		BurnSvc:  newBurnService(logger, client, client, signer, cfg),
		MintSvc:  newMintService(logger, client, signer, cfg),
		client:   client,
		decimals: decimals,
	}, nil
}

// Name identifies the ledger in logs and outcomes.
func (n *Network) Name() string {
	return "sui"
}

// Decimals returns the coin's base-unit scale.
func (n *Network) Decimals() int {
	return n.decimals
}

// Burn destroys amount base units from owner's coins.
func (n *Network) Burn(ctx context.Context, owner string, amount *big.Int) (string, error) {
	return n.BurnSvc.Burn(ctx, owner, amount)
}

// Mint creates amount base units owned by recipient.
func (n *Network) Mint(ctx context.Context, recipient string, amount *big.Int) (string, error) {
	return n.MintSvc.Mint(ctx, recipient, amount)
}
