package sui

import "math/big"

// ObjectID identifies one on-chain object.
type ObjectID string

// CoinObject is one discrete coin owned by an address. Coins are never
// partially spent outside an explicit split.
type CoinObject struct {
	ID      ObjectID
	Balance *big.Int
}

// PackageConfig locates the token's Move package on chain.
type PackageConfig struct {
	PackageID     string
	TreasuryCapID ObjectID
	CoinType      string
}

// TransactionData is the typed transaction intent handed to the wallet
// signer. Exactly one of Mint or Burn is set.
type TransactionData struct {
	Sender string    `json:"sender"`
	Mint   *MintCall `json:"mint,omitempty"`
	Burn   *BurnCall `json:"burn,omitempty"`
}

// MintCall mints Amount base units to Recipient using the treasury cap.
type MintCall struct {
	PackageID   string   `json:"packageId"`
	TreasuryCap ObjectID `json:"treasuryCap"`
	Amount      uint64   `json:"amount"`
	Recipient   string   `json:"recipient"`
}

// BurnCall merges the Merge coins into SpendCoin, splits SplitAmount base
// units off it and burns the split coin. When SplitAmount is zero the
// whole SpendCoin is burned without a split.
type BurnCall struct {
	PackageID   string     `json:"packageId"`
	TreasuryCap ObjectID   `json:"treasuryCap"`
	Merge       []ObjectID `json:"merge,omitempty"`
	SpendCoin   ObjectID   `json:"spendCoin"`
	SplitAmount uint64     `json:"splitAmount,omitempty"`
}
