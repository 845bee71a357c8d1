package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// Network is the account-model ledger adapter. Balances are fungible
// contract entries, so burn and mint need no coin selection.
type Network struct {
	Token   *TokenService
	Balance *balanceService

	logger     *logrus.Logger
	signerAddr ecommon.Address
	decimals   int
}

// NewNetwork connects to the RPC endpoint, binds the token contract and
// resolves its decimal scale. The signer key authorizes burns from its own
// balance and privileged mints.
func NewNetwork(
	ctx context.Context,
	rpcURL string,
	tokenAddress string,
	signerKeyHex string,
	logger *logrus.Logger,
) (*Network, error) {
	rpc, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := rpc.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(signerKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signer key: %w", err)
	}

	signer, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	parsedABI, err := parseTokenABI()
	if err != nil {
		return nil, err
	}
	contract := bind.NewBoundContract(ecommon.HexToAddress(tokenAddress), parsedABI, rpc, rpc, rpc)

	balance := newBalanceService(contract)
	decimals, err := balance.GetDecimals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token decimals: %w", err)
	}

	return &Network{
		Token:      newTokenService(logger, rpc, contract, signer),
		Balance:    balance,
		logger:     logger,
		signerAddr: signer.From,
		decimals:   decimals,
	}, nil
}

// Name identifies the ledger in logs and outcomes.
func (n *Network) Name() string {
	return "ethereum"
}

// Decimals returns the token's base-unit scale.
func (n *Network) Decimals() int {
	return n.decimals
}

// Burn destroys amount base units. Burns are always taken from the signer
// account's balance; owner is accepted for symmetry with the object-model
// ledger and logged for correlation.
func (n *Network) Burn(ctx context.Context, owner string, amount *big.Int) (string, error) {
	if !strings.EqualFold(owner, n.signerAddr.Hex()) {
		n.logger.WithFields(logrus.Fields{
			"requested": owner,
			"signer":    n.signerAddr.Hex(),
		}).Warn("burn requested for a different identity than the signer")
	}
	return n.Token.Burn(ctx, amount)
}

// Mint creates amount base units owned by recipient.
func (n *Network) Mint(ctx context.Context, recipient string, amount *big.Int) (string, error) {
	return n.Token.Mint(ctx, ecommon.HexToAddress(recipient), amount)
}

// SignerAddress returns the address funds are burned from.
func (n *Network) SignerAddress() string {
	return n.signerAddr.Hex()
}
