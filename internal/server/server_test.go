package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ibtlabs/ibt-bridge/internal/bridge"
	"github.com/ibtlabs/ibt-bridge/internal/sui"
	"github.com/ibtlabs/ibt-bridge/internal/util"
)

type fakeBridger struct {
	calls   int
	gotReq  bridge.Request
	outcome bridge.Outcome
	err     error
}

func (f *fakeBridger) Bridge(_ context.Context, req bridge.Request) (bridge.Outcome, error) {
	f.calls++
	f.gotReq = req
	return f.outcome, f.err
}

type fakeQueue struct {
	calls int
	task  *asynq.Task
	err   error
}

func (f *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.calls++
	f.task = task
	return &asynq.TaskInfo{}, f.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

const validBody = `{
	"direction": "eth_to_sui",
	"amount": "1.5",
	"ethAddress": "0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1",
	"suiAddress": "0xbd016088dfbc95b3145ddb59f506bfdc6593d3c1ab047f7712b8763bd6fb6e81"
}`

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestBridgeEndpointSuccess(t *testing.T) {
	svc := &fakeBridger{outcome: bridge.Outcome{
		Direction: bridge.EthToSui,
		Burn:      bridge.StepResult{Status: bridge.StepConfirmed, TxID: "0xburn"},
		Mint:      bridge.StepResult{Status: bridge.StepConfirmed, TxID: "DgMint"},
	}}
	s := New(testLogger(), svc, nil, Config{Port: 0})

	rec := doRequest(s, http.MethodPost, "/v1/bridge", validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, svc.calls)
	require.NotEmpty(t, svc.gotReq.ID, "server assigns a request id")
	require.Equal(t, bridge.EthToSui, svc.gotReq.Direction)

	var outcome bridge.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	require.True(t, outcome.Done())
}

func TestBridgeEndpointInvalidDirection(t *testing.T) {
	svc := &fakeBridger{}
	s := New(testLogger(), svc, nil, Config{})

	rec := doRequest(s, http.MethodPost, "/v1/bridge", `{"direction":"sideways","amount":"1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, svc.calls)
}

func TestBridgeEndpointInvalidAmount(t *testing.T) {
	svc := &fakeBridger{err: util.ErrInvalidAmount}
	s := New(testLogger(), svc, nil, Config{})

	rec := doRequest(s, http.MethodPost, "/v1/bridge", validBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBridgeEndpointInsufficientBalance(t *testing.T) {
	insufficient := &sui.InsufficientBalanceError{
		Required:  big.NewInt(40),
		Available: big.NewInt(25),
	}
	svc := &fakeBridger{
		outcome: bridge.Outcome{
			Burn: bridge.StepResult{Status: bridge.StepFailed, Reason: insufficient.Error()},
			Mint: bridge.StepResult{Status: bridge.StepSkipped},
		},
		err: insufficient,
	}
	s := New(testLogger(), svc, nil, Config{})

	rec := doRequest(s, http.MethodPost, "/v1/bridge", validBody)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Shortfall string `json:"shortfall"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "15", resp.Shortfall)
}

func TestBridgeEndpointPartialFailure(t *testing.T) {
	svc := &fakeBridger{
		outcome: bridge.Outcome{
			Direction: bridge.EthToSui,
			Burn:      bridge.StepResult{Status: bridge.StepConfirmed, TxID: "0xburn"},
			Mint:      bridge.StepResult{Status: bridge.StepFailed, Reason: "wallet unreachable"},
		},
		err: &bridge.PartialFailureError{Ledger: "sui", Err: errors.New("wallet unreachable")},
	}
	s := New(testLogger(), svc, nil, Config{})

	rec := doRequest(s, http.MethodPost, "/v1/bridge", validBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// The outcome must reach the caller: it is the record of burned but
	// unminted value.
	var outcome bridge.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	require.True(t, outcome.PartialFailure())
	require.Equal(t, "0xburn", outcome.Burn.TxID)
}

func TestBridgeEndpointAdapterFailure(t *testing.T) {
	svc := &fakeBridger{
		outcome: bridge.Outcome{
			Burn: bridge.StepResult{Status: bridge.StepFailed, Reason: "rpc timeout"},
			Mint: bridge.StepResult{Status: bridge.StepSkipped},
		},
		err: errors.New("failed to burn on ethereum: rpc timeout"),
	}
	s := New(testLogger(), svc, nil, Config{})

	rec := doRequest(s, http.MethodPost, "/v1/bridge", validBody)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAsyncEndpointEnqueues(t *testing.T) {
	svc := &fakeBridger{}
	queue := &fakeQueue{}
	s := New(testLogger(), svc, queue, Config{})

	rec := doRequest(s, http.MethodPost, "/v1/bridge/async", validBody)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, queue.calls)
	require.Zero(t, svc.calls, "async endpoint must not bridge inline")
	require.Equal(t, bridge.TypeBridgeExecute, queue.task.Type())

	var req bridge.Request
	require.NoError(t, json.Unmarshal(queue.task.Payload(), &req))
	require.Equal(t, "1.5", req.Amount)
	require.NotEmpty(t, req.ID)

	var resp struct {
		RequestID string `json:"requestId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, req.ID, resp.RequestID)
}

func TestAsyncEndpointDisabled(t *testing.T) {
	s := New(testLogger(), &fakeBridger{}, nil, Config{})

	rec := doRequest(s, http.MethodPost, "/v1/bridge/async", validBody)
	require.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := New(testLogger(), &fakeBridger{}, nil, Config{})

	rec := doRequest(s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
