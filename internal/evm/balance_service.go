package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ecommon "github.com/ethereum/go-ethereum/common"
)

type balanceService struct {
	contract *bind.BoundContract
}

func newBalanceService(contract *bind.BoundContract) *balanceService {
	return &balanceService{contract: contract}
}

func (s *balanceService) GetBalance(ctx context.Context, owner ecommon.Address) (*big.Int, error) {
	var out []interface{}
	err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get token balance: %w", err)
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result type %T", out[0])
	}
	return balance, nil
}

func (s *balanceService) GetDecimals(ctx context.Context) (int, error) {
	var out []interface{}
	err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, "decimals")
	if err != nil {
		return 0, fmt.Errorf("failed to get token decimals: %w", err)
	}

	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals result type %T", out[0])
	}
	return int(decimals), nil
}
