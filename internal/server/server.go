package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ibtlabs/ibt-bridge/internal/bridge"
	"github.com/ibtlabs/ibt-bridge/internal/metrics"
	"github.com/ibtlabs/ibt-bridge/internal/sui"
	"github.com/ibtlabs/ibt-bridge/internal/util"
)

// Config for the HTTP API.
type Config struct {
	Port int `default:"8080"`
}

type bridger interface {
	Bridge(ctx context.Context, req bridge.Request) (bridge.Outcome, error)
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Server exposes the bridge over HTTP. The synchronous endpoint blocks
// through both ledger confirmations; the async endpoint hands the request
// to the worker queue and returns immediately.
type Server struct {
	logger *logrus.Logger
	e      *echo.Echo
	svc    bridger
	queue  enqueuer
	port   int
}

// BridgeRequestBody is the caller-supplied part of a bridge request.
type BridgeRequestBody struct {
	Direction  string `json:"direction"`
	Amount     string `json:"amount"`
	EthAddress string `json:"ethAddress"`
	SuiAddress string `json:"suiAddress"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Shortfall string `json:"shortfall,omitempty"`
}

// New wires the HTTP server. queue may be nil, which disables the async
// endpoint.
func New(logger *logrus.Logger, svc bridger, queue enqueuer, cfg Config) *Server {
	s := &Server{
		logger: logger.WithField("pkg", "server.Server").Logger,
		svc:    svc,
		queue:  queue,
		port:   cfg.Port,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(metrics.HTTPMiddleware())

	e.GET("/health", s.handleHealth)
	e.POST("/v1/bridge", s.handleBridge)
	e.POST("/v1/bridge/async", s.handleBridgeAsync)

	s.e = e
	return s
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.e.Shutdown(context.Background()); err != nil {
			s.logger.Errorf("failed to shut down server: %v", err)
		}
	}()

	s.logger.Infof("server listening on :%d", s.port)
	err := s.e.Start(fmt.Sprintf(":%d", s.port))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) parseRequest(c echo.Context) (bridge.Request, error) {
	var body BridgeRequestBody
	if err := c.Bind(&body); err != nil {
		return bridge.Request{}, fmt.Errorf("failed to parse request body: %w", err)
	}

	direction, err := bridge.ParseDirection(body.Direction)
	if err != nil {
		return bridge.Request{}, err
	}

	return bridge.Request{
		ID:         uuid.NewString(),
		Direction:  direction,
		Amount:     body.Amount,
		EthAddress: body.EthAddress,
		SuiAddress: body.SuiAddress,
	}, nil
}

func (s *Server) handleBridge(c echo.Context) error {
	req, err := s.parseRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	outcome, err := s.svc.Bridge(c.Request().Context(), req)
	if err == nil {
		return c.JSON(http.StatusOK, outcome)
	}

	var insufficient *sui.InsufficientBalanceError
	switch {
	case errors.Is(err, util.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &insufficient):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:     err.Error(),
			Shortfall: insufficient.Shortfall().String(),
		})
	case errors.Is(err, bridge.ErrPartialFailure):
		// The outcome body is the operator's record of the burned-but-
		// not-minted value; it must reach the caller.
		return c.JSON(http.StatusInternalServerError, outcome)
	case outcome.Burn.Status == bridge.StepSkipped:
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusBadGateway, outcome)
	}
}

func (s *Server) handleBridgeAsync(c echo.Context) error {
	if s.queue == nil {
		return c.JSON(http.StatusNotImplemented, errorResponse{Error: "async bridging is not enabled"})
	}

	req, err := s.parseRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to encode request"})
	}

	// MaxRetry(0): a requeued bridge could double-spend the burn side.
	_, err = s.queue.EnqueueContext(
		c.Request().Context(),
		asynq.NewTask(bridge.TypeBridgeExecute, payload),
		asynq.Queue(bridge.QueueName),
		asynq.MaxRetry(0),
	)
	if err != nil {
		s.logger.WithError(err).Error("failed to enqueue bridge task")
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "failed to enqueue bridge request"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"requestId": req.ID})
}
