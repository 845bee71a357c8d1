package sui

import (
	"context"
	"math/big"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	coins []CoinObject
	err   error
}

func (f *fakeQuerier) GetOwnedCoins(context.Context, string, string) ([]CoinObject, error) {
	return f.coins, f.err
}

type fakeSubmitter struct {
	digest      string
	executeErr  error
	waitErr     error
	executed    int
	waitedFor   string
	gotTxBytes  string
	gotSigBytes string
}

func (f *fakeSubmitter) ExecuteTransactionBlock(_ context.Context, txBytes, signature string) (string, error) {
	f.executed++
	f.gotTxBytes = txBytes
	f.gotSigBytes = signature
	return f.digest, f.executeErr
}

func (f *fakeSubmitter) WaitForCheckpoint(_ context.Context, digest string) error {
	f.waitedFor = digest
	return f.waitErr
}

type fakeSigner struct {
	gotTx TransactionData
	err   error
}

func (f *fakeSigner) SignTransaction(_ context.Context, tx TransactionData) (string, string, error) {
	f.gotTx = tx
	return "dHg=", "c2ln", f.err
}

var testPkg = PackageConfig{
	PackageID:     "0xpkg",
	TreasuryCapID: "0xcap",
	CoinType:      "0x2::coin::Coin<0xpkg::IBT::IBT>",
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestBurnMergesAndSplits(t *testing.T) {
	querier := &fakeQuerier{coins: []CoinObject{
		{ID: "0xaaa", Balance: big.NewInt(30)},
		{ID: "0xbbb", Balance: big.NewInt(50)},
	}}
	submitter := &fakeSubmitter{digest: "Dg1"}
	signer := &fakeSigner{}

	svc := newBurnService(testLogger(), querier, submitter, signer, testPkg)
	digest, err := svc.Burn(context.Background(), "0xowner", big.NewInt(40))
	require.NoError(t, err)
	require.Equal(t, "Dg1", digest)
	require.Equal(t, 1, submitter.executed)
	require.Equal(t, "Dg1", submitter.waitedFor, "must wait for confirmation")

	burn := signer.gotTx.Burn
	require.NotNil(t, burn)
	require.Nil(t, signer.gotTx.Mint)
	require.Equal(t, "0xowner", signer.gotTx.Sender)
	require.Equal(t, ObjectID("0xcap"), burn.TreasuryCap)
	require.Equal(t, []ObjectID{"0xbbb"}, burn.Merge, "all but the merge target are merge sources")
	require.Equal(t, ObjectID("0xaaa"), burn.SpendCoin)
	require.Equal(t, uint64(40), burn.SplitAmount)
}

func TestBurnSingleCoinNoMerge(t *testing.T) {
	querier := &fakeQuerier{coins: []CoinObject{
		{ID: "0xaaa", Balance: big.NewInt(100)},
	}}
	submitter := &fakeSubmitter{digest: "Dg1"}
	signer := &fakeSigner{}

	svc := newBurnService(testLogger(), querier, submitter, signer, testPkg)
	_, err := svc.Burn(context.Background(), "0xowner", big.NewInt(40))
	require.NoError(t, err)

	burn := signer.gotTx.Burn
	require.Empty(t, burn.Merge)
	require.Equal(t, ObjectID("0xaaa"), burn.SpendCoin)
	require.Equal(t, uint64(40), burn.SplitAmount)
}

func TestBurnExactCoinNoSplit(t *testing.T) {
	querier := &fakeQuerier{coins: []CoinObject{
		{ID: "0xaaa", Balance: big.NewInt(40)},
	}}
	submitter := &fakeSubmitter{digest: "Dg1"}
	signer := &fakeSigner{}

	svc := newBurnService(testLogger(), querier, submitter, signer, testPkg)
	_, err := svc.Burn(context.Background(), "0xowner", big.NewInt(40))
	require.NoError(t, err)

	burn := signer.gotTx.Burn
	require.Empty(t, burn.Merge)
	require.Equal(t, ObjectID("0xaaa"), burn.SpendCoin)
	require.Zero(t, burn.SplitAmount, "exact-balance coin is spent whole")
}

func TestBurnInsufficientBalance(t *testing.T) {
	querier := &fakeQuerier{coins: []CoinObject{
		{ID: "0xaaa", Balance: big.NewInt(10)},
		{ID: "0xbbb", Balance: big.NewInt(15)},
	}}
	submitter := &fakeSubmitter{}
	signer := &fakeSigner{}

	svc := newBurnService(testLogger(), querier, submitter, signer, testPkg)
	_, err := svc.Burn(context.Background(), "0xowner", big.NewInt(40))

	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, big.NewInt(15), insufficient.Shortfall())
	require.Zero(t, submitter.executed, "nothing may be submitted without coverage")
}

func TestBurnConflictSurfaces(t *testing.T) {
	querier := &fakeQuerier{coins: []CoinObject{
		{ID: "0xaaa", Balance: big.NewInt(100)},
	}}
	submitter := &fakeSubmitter{executeErr: ErrObjectConflict}
	signer := &fakeSigner{}

	svc := newBurnService(testLogger(), querier, submitter, signer, testPkg)
	_, err := svc.Burn(context.Background(), "0xowner", big.NewInt(40))
	require.ErrorIs(t, err, ErrObjectConflict)
}

func TestMintBuildsTreasuryCall(t *testing.T) {
	submitter := &fakeSubmitter{digest: "Dg9"}
	signer := &fakeSigner{}

	svc := newMintService(testLogger(), submitter, signer, testPkg)
	digest, err := svc.Mint(context.Background(), "0xrecipient", big.NewInt(40))
	require.NoError(t, err)
	require.Equal(t, "Dg9", digest)
	require.Equal(t, "Dg9", submitter.waitedFor)

	mint := signer.gotTx.Mint
	require.NotNil(t, mint)
	require.Nil(t, signer.gotTx.Burn)
	require.Equal(t, ObjectID("0xcap"), mint.TreasuryCap)
	require.Equal(t, uint64(40), mint.Amount)
	require.Equal(t, "0xrecipient", mint.Recipient)
}
