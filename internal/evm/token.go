package evm

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// tokenABI covers the entry points of the bridged token contract: the
// holder-side burn, the privileged mint, and the read-only views used to
// resolve balances and the base-unit scale.
const tokenABI = `[
	{"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

func parseTokenABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(tokenABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse token ABI: %w", err)
	}
	return parsed, nil
}
