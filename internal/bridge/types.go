package bridge

import "fmt"

// Direction of a bridge: which ledger burns and which mints.
type Direction string

const (
	// EthToSui burns on Ethereum and mints on Sui.
	EthToSui Direction = "eth_to_sui"
	// SuiToEth burns on Sui and mints on Ethereum.
	SuiToEth Direction = "sui_to_eth"
)

// ParseDirection validates a user-supplied direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case EthToSui, SuiToEth:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown bridge direction: %q", s)
	}
}

// Request is one bridge attempt. It has no identity beyond the single
// coordination call and is never retried automatically.
type Request struct {
	ID         string    `json:"id"`
	Direction  Direction `json:"direction"`
	Amount     string    `json:"amount"`
	EthAddress string    `json:"ethAddress"`
	SuiAddress string    `json:"suiAddress"`
}

// StepStatus is the terminal state of one ledger operation.
type StepStatus string

const (
	StepConfirmed StepStatus = "confirmed"
	StepFailed    StepStatus = "failed"
	// StepSkipped marks a mint that was never attempted because the burn
	// did not confirm.
	StepSkipped StepStatus = "skipped"
)

// StepResult is the outcome of a single burn or mint.
type StepResult struct {
	Status StepStatus `json:"status"`
	TxID   string     `json:"txId,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

func confirmed(txID string) StepResult {
	return StepResult{Status: StepConfirmed, TxID: txID}
}

func failed(reason string) StepResult {
	return StepResult{Status: StepFailed, Reason: reason}
}

func skipped() StepResult {
	return StepResult{Status: StepSkipped}
}

// Outcome is the concatenation of the two independent ledger results.
// There is no combined state machine persisted anywhere; when the process
// stops, the ledgers themselves are the only record.
type Outcome struct {
	RequestID string     `json:"requestId,omitempty"`
	Direction Direction  `json:"direction"`
	Burn      StepResult `json:"burn"`
	Mint      StepResult `json:"mint"`
}

// Done reports whether both steps confirmed.
func (o Outcome) Done() bool {
	return o.Burn.Status == StepConfirmed && o.Mint.Status == StepConfirmed
}

// PartialFailure reports the one state needing operator attention: value
// destroyed on the source ledger without being recreated on the
// destination. It is never folded into plain success or plain failure.
func (o Outcome) PartialFailure() bool {
	return o.Burn.Status == StepConfirmed && o.Mint.Status == StepFailed
}

// Status summarizes the outcome for logs and metrics.
func (o Outcome) Status() string {
	switch {
	case o.Done():
		return "done"
	case o.PartialFailure():
		return "partial_failure"
	default:
		return "failed"
	}
}
