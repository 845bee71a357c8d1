package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

const (
	// TypeBridgeExecute is the asynq task type for queued bridge requests.
	TypeBridgeExecute = "bridge:execute"
	// QueueName is the asynq queue bridge tasks are enqueued on.
	QueueName = "bridge"
)

type bridger interface {
	Bridge(ctx context.Context, req Request) (Outcome, error)
}

// Consumer executes queued bridge requests. Failures are terminal for the
// task: a retry could burn or mint twice, so a new attempt must be an
// explicit new request with fresh coin selection.
type Consumer struct {
	logger *logrus.Logger
	svc    bridger
}

// NewConsumer creates a Consumer around the coordinator.
func NewConsumer(logger *logrus.Logger, svc bridger) *Consumer {
	return &Consumer{
		logger: logger.WithField("pkg", "bridge.Consumer").Logger,
		svc:    svc,
	}
}

// Handle processes one queued bridge request.
func (c *Consumer) Handle(ctx context.Context, t *asynq.Task) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	err := c.handle(ctx, t)
	if err != nil {
		c.logger.WithError(err).Error("failed to handle bridge task")
		return asynq.SkipRetry
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, t *asynq.Task) error {
	var req Request
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		return fmt.Errorf("failed to unmarshal bridge request: %w", err)
	}

	outcome, err := c.svc.Bridge(ctx, req)
	if err != nil {
		if outcome.PartialFailure() {
			c.logger.WithFields(logrus.Fields{
				"requestID": req.ID,
				"direction": req.Direction,
				"burnTx":    outcome.Burn.TxID,
				"reason":    outcome.Mint.Reason,
			}).Error("partial bridge failure: value burned but not minted")
		}
		return fmt.Errorf("failed to bridge: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"requestID": req.ID,
		"direction": req.Direction,
		"burnTx":    outcome.Burn.TxID,
		"mintTx":    outcome.Mint.TxID,
	}).Info("bridge task done")
	return nil
}
