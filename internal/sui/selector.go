package sui

import (
	"fmt"
	"math/big"
)

// SelectionPlan describes how to assemble an exact spend amount from an
// owner's coin objects: merge MergeIDs into the first one (when more than
// one), then split SplitAmount base units off SpendID. When ExactSpend is
// set the selected coin matches the amount exactly and no split is needed.
type SelectionPlan struct {
	MergeIDs    []ObjectID
	SpendID     ObjectID
	SplitAmount *big.Int
	ExactSpend  bool
}

// InsufficientBalanceError reports that the owner's coins cannot cover the
// required amount.
type InsufficientBalanceError struct {
	Required  *big.Int
	Available *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance: required %s, available %s, short %s base units",
		e.Required, e.Available, e.Shortfall(),
	)
}

// Shortfall returns how many base units are missing.
func (e *InsufficientBalanceError) Shortfall() *big.Int {
	return new(big.Int).Sub(e.Required, e.Available)
}

// SelectCoins picks the coins to merge and split to spend exactly required
// base units. Coins are scanned in the given order, accumulating into the
// merge set; scanning stops early as soon as a visited coin's own balance
// covers the requirement. This is a first-sufficient-prefix selection, not
// a minimum-count or minimum-waste one: the scan order decides which coins
// get consumed, and the same input always yields the same plan.
func SelectCoins(owned []CoinObject, required *big.Int) (SelectionPlan, error) {
	if required == nil || required.Sign() <= 0 {
		return SelectionPlan{}, fmt.Errorf("required amount must be positive, got %v", required)
	}

	total := new(big.Int)
	var mergeIDs []ObjectID
	var spendID ObjectID
	var spendBalance *big.Int

	for _, coin := range owned {
		total.Add(total, coin.Balance)
		mergeIDs = append(mergeIDs, coin.ID)
		if coin.Balance.Cmp(required) >= 0 {
			spendID = coin.ID
			spendBalance = coin.Balance
			break
		}
	}

	if total.Cmp(required) < 0 {
		return SelectionPlan{}, &InsufficientBalanceError{
			Required:  new(big.Int).Set(required),
			Available: total,
		}
	}

	if len(mergeIDs) > 1 {
		// Everything accumulated merges into the first coin, which
		// becomes the coin to split.
		spendID = mergeIDs[0]
		return SelectionPlan{
			MergeIDs:    mergeIDs,
			SpendID:     spendID,
			SplitAmount: new(big.Int).Set(required),
		}, nil
	}

	if spendBalance.Cmp(required) == 0 {
		// The single selected coin matches exactly; spend it whole.
		return SelectionPlan{
			MergeIDs:   mergeIDs,
			SpendID:    spendID,
			ExactSpend: true,
		}, nil
	}

	return SelectionPlan{
		MergeIDs:    mergeIDs,
		SpendID:     spendID,
		SplitAmount: new(big.Int).Set(required),
	}, nil
}
