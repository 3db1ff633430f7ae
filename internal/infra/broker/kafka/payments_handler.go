package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"

	"directstay/internal/app/commands"
	"directstay/internal/app/dto"
	"directstay/internal/app/handlers/checkout"
)

const (
	paymentSucceededType = "payment.succeeded"
	paymentFailedType    = "payment.failed"
)

type paymentEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		BookingID  string `json:"booking_id"`
		PaymentRef string `json:"payment_ref"`
	} `json:"data"`
}

// PaymentEventsHandler turns payment provider events relayed to Kafka into ConfirmPayment commands.
type PaymentEventsHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

// Handle returns nil for malformed or unrelated messages so they are not redelivered forever.
func (h *PaymentEventsHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt paymentEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		h.warn("undecodable payment event", msg, err)
		return nil
	}
	status := ""
	switch strings.TrimSuffix(evt.Type, ".v1") {
	case paymentSucceededType:
		status = checkout.PaymentSucceeded
	case paymentFailedType:
		status = checkout.PaymentFailed
	default:
		return nil
	}
	if evt.ID == "" || evt.Data.BookingID == "" {
		h.warn("payment event missing identifiers", msg, nil)
		return nil
	}
	_, err := commands.Dispatch[checkout.ConfirmPaymentCommand, *dto.PaymentConfirmation](ctx, h.Commands, checkout.ConfirmPaymentCommand{
		EventID:    evt.ID,
		BookingID:  evt.Data.BookingID,
		PaymentRef: evt.Data.PaymentRef,
		Status:     status,
	})
	return err
}

func (h *PaymentEventsHandler) warn(msg string, m *sarama.ConsumerMessage, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.Warn(msg, "topic", m.Topic, "offset", m.Offset, "error", err)
}

var _ MessageHandler = (*PaymentEventsHandler)(nil)
