package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeBridger struct {
	calls   int
	gotReq  Request
	outcome Outcome
	err     error
}

func (f *fakeBridger) Bridge(_ context.Context, req Request) (Outcome, error) {
	f.calls++
	f.gotReq = req
	return f.outcome, f.err
}

func bridgeTask(t *testing.T, req Request) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(req)
	require.NoError(t, err)
	return asynq.NewTask(TypeBridgeExecute, payload)
}

func TestConsumerHandlesRequest(t *testing.T) {
	svc := &fakeBridger{outcome: Outcome{
		Direction: EthToSui,
		Burn:      confirmed("0xburn"),
		Mint:      confirmed("DgMint"),
	}}
	consumer := NewConsumer(testLogger(), svc)

	req := testRequest(EthToSui)
	err := consumer.Handle(context.Background(), bridgeTask(t, req))
	require.NoError(t, err)
	require.Equal(t, 1, svc.calls)
	require.Equal(t, req, svc.gotReq)
}

func TestConsumerNeverRetries(t *testing.T) {
	// A retry could burn twice, so any failure is terminal for the task.
	svc := &fakeBridger{err: errors.New("adapter down")}
	consumer := NewConsumer(testLogger(), svc)

	err := consumer.Handle(context.Background(), bridgeTask(t, testRequest(EthToSui)))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Equal(t, 1, svc.calls)
}

func TestConsumerPartialFailureTerminal(t *testing.T) {
	svc := &fakeBridger{
		outcome: Outcome{
			Direction: EthToSui,
			Burn:      confirmed("0xburn"),
			Mint:      failed("wallet unreachable"),
		},
		err: &PartialFailureError{Ledger: "sui", Err: errors.New("wallet unreachable")},
	}
	consumer := NewConsumer(testLogger(), svc)

	err := consumer.Handle(context.Background(), bridgeTask(t, testRequest(EthToSui)))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestConsumerBadPayload(t *testing.T) {
	svc := &fakeBridger{}
	consumer := NewConsumer(testLogger(), svc)

	err := consumer.Handle(context.Background(), asynq.NewTask(TypeBridgeExecute, []byte("{not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Zero(t, svc.calls)
}
