package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

type MessageHandler interface {
	Handle(ctx context.Context, msg *sarama.ConsumerMessage) error
}

// Consumer feeds a consumer group's messages to one handler. A failing message is retried
// once per Backoff step; after the last step its offset is marked anyway and the failure is
// logged with topic, partition and offset so it can be replayed by hand.
type Consumer struct {
	Backoff []time.Duration

	group   sarama.ConsumerGroup
	handler MessageHandler
	logger  *slog.Logger
}

func NewConsumer(brokers []string, groupID string, cfg *sarama.Config, handler MessageHandler, logger *slog.Logger) (*Consumer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Version = sarama.V2_5_0_0
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	g, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: g, handler: handler, logger: logger}, nil
}

// Run consumes until ctx is cancelled, rejoining the group after each rebalance.
func (c *Consumer) Run(ctx context.Context, topics []string) error {
	for {
		if err := c.group.Consume(ctx, topics, c.groupHandler()); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

func (c *Consumer) groupHandler() groupHandler {
	return groupHandler{handler: c.handler, backoff: c.Backoff, logger: c.logger, sleep: sleepCtx}
}

type groupHandler struct {
	handler MessageHandler
	backoff []time.Duration
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) bool
}

func (h groupHandler) Setup(sess sarama.ConsumerGroupSession) error {
	if h.logger != nil {
		h.logger.Info("kafka partitions assigned", "member", sess.MemberID(), "claims", sess.Claims())
	}
	return nil
}

func (h groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if !h.deliver(sess.Context(), message) {
			// session is ending; leave the offset for the next owner
			return nil
		}
		sess.MarkMessage(message, "")
	}
	return nil
}

// deliver reports false only when ctx ended before the message was settled.
func (h groupHandler) deliver(ctx context.Context, msg *sarama.ConsumerMessage) bool {
	for attempt := 0; ; attempt++ {
		err := h.handler.Handle(ctx, msg)
		if err == nil {
			return true
		}
		if attempt >= len(h.backoff) {
			h.log(slog.LevelError, "kafka message abandoned", msg, attempt+1, err)
			return true
		}
		h.log(slog.LevelWarn, "kafka message failed, retrying", msg, attempt+1, err)
		if !h.sleep(ctx, h.backoff[attempt]) {
			return false
		}
	}
}

func (h groupHandler) log(level slog.Level, text string, msg *sarama.ConsumerMessage, attempts int, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Log(context.Background(), level, text,
		"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "attempts", attempts, "error", err)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
