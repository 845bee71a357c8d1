package bridge

import (
	"errors"
	"fmt"
)

// ErrPartialFailure marks a confirmed burn whose matching mint failed.
// Check with errors.Is.
var ErrPartialFailure = errors.New("burn confirmed but mint failed")

// PartialFailureError carries the mint failure behind ErrPartialFailure.
// No compensating re-mint or burn reversal is attempted; the caller must
// surface this to an operator.
type PartialFailureError struct {
	Ledger string
	Err    error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("burn confirmed but mint on %s failed: %v", e.Ledger, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}
