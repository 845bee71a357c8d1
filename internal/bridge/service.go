package bridge

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ibtlabs/ibt-bridge/internal/metrics"
	"github.com/ibtlabs/ibt-bridge/internal/util"
)

// Ledger is one side of the bridge. Burn and Mint must wait for network
// confirmation before returning; a submitted-but-unconfirmed transaction
// is not a success signal.
type Ledger interface {
	Name() string
	Decimals() int
	Burn(ctx context.Context, owner string, amount *big.Int) (txID string, err error)
	Mint(ctx context.Context, recipient string, amount *big.Int) (txID string, err error)
}

// Service coordinates the two-step bridge flow: burn on the source
// ledger, then mint on the destination. The mint never starts before the
// burn's confirmation is observed, and the two ledgers share no
// atomicity: a failed mint after a confirmed burn is reported as a
// partial failure, never hidden.
type Service struct {
	logger *logrus.Logger
	eth    Ledger
	sui    Ledger
}

// NewService wires the coordinator with its two ledger adapters.
func NewService(logger *logrus.Logger, eth, sui Ledger) *Service {
	return &Service{
		logger: logger.WithField("pkg", "bridge.Service").Logger,
		eth:    eth,
		sui:    sui,
	}
}

// Bridge executes one bridge attempt. The returned Outcome always carries
// both step results; err is non-nil whenever the outcome is not Done.
// Concurrent calls for the same object-model owner are not coordinated
// against each other: both may select the same coin objects and the loser
// fails at execution time.
func (s *Service) Bridge(ctx context.Context, req Request) (Outcome, error) {
	outcome := Outcome{
		RequestID: req.ID,
		Direction: req.Direction,
		Burn:      skipped(),
		Mint:      skipped(),
	}

	src, dst, burnOwner, mintRecipient, err := s.route(req)
	if err != nil {
		return outcome, err
	}

	burnUnits, err := util.ToBaseUnits(req.Amount, src.Decimals())
	if err != nil {
		return outcome, fmt.Errorf("failed to convert amount: %w", err)
	}
	if burnUnits.Sign() == 0 {
		return outcome, fmt.Errorf("%w: %q is zero at %d decimals", util.ErrInvalidAmount, req.Amount, src.Decimals())
	}

	l := s.logger.WithFields(logrus.Fields{
		"requestID": req.ID,
		"direction": req.Direction,
		"amount":    req.Amount,
		"source":    src.Name(),
		"dest":      dst.Name(),
	})
	l.Info("starting bridge")

	burnStart := time.Now()
	burnTx, err := src.Burn(ctx, burnOwner, burnUnits)
	metrics.ObserveBridgeStep(src.Name(), "burn", time.Since(burnStart).Seconds())
	if err != nil {
		outcome.Burn = failed(err.Error())
		metrics.RecordBridgeOutcome(string(req.Direction), outcome.Status())
		return outcome, fmt.Errorf("failed to burn on %s: %w", src.Name(), err)
	}
	outcome.Burn = confirmed(burnTx)
	l.WithField("burnTx", burnTx).Info("burn confirmed")

	// Same logical amount, re-scaled to the destination ledger.
	mintUnits, err := util.ToBaseUnits(req.Amount, dst.Decimals())
	if err != nil {
		outcome.Mint = failed(err.Error())
		metrics.RecordBridgeOutcome(string(req.Direction), outcome.Status())
		return outcome, &PartialFailureError{Ledger: dst.Name(), Err: err}
	}

	mintStart := time.Now()
	mintTx, err := dst.Mint(ctx, mintRecipient, mintUnits)
	metrics.ObserveBridgeStep(dst.Name(), "mint", time.Since(mintStart).Seconds())
	if err != nil {
		outcome.Mint = failed(err.Error())
		metrics.RecordBridgeOutcome(string(req.Direction), outcome.Status())
		l.WithError(err).WithField("burnTx", burnTx).
			Error("mint failed after confirmed burn, operator attention required")
		return outcome, &PartialFailureError{Ledger: dst.Name(), Err: err}
	}
	outcome.Mint = confirmed(mintTx)

	metrics.RecordBridgeOutcome(string(req.Direction), outcome.Status())
	l.WithFields(logrus.Fields{
		"burnTx": burnTx,
		"mintTx": mintTx,
	}).Info("bridge done")
	return outcome, nil
}

func (s *Service) route(req Request) (src, dst Ledger, burnOwner, mintRecipient string, err error) {
	if req.EthAddress == "" || req.SuiAddress == "" {
		return nil, nil, "", "", fmt.Errorf("both ledger identities are required")
	}

	switch req.Direction {
	case EthToSui:
		return s.eth, s.sui, req.EthAddress, req.SuiAddress, nil
	case SuiToEth:
		return s.sui, s.eth, req.SuiAddress, req.EthAddress, nil
	default:
		return nil, nil, "", "", fmt.Errorf("unknown bridge direction: %q", req.Direction)
	}
}
