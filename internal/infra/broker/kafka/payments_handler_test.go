package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"

	"directstay/internal/app/commands"
	"directstay/internal/app/dto"
	"directstay/internal/app/handlers/checkout"
)

type busStub struct {
	got []commands.Command
	err error
}

func (b *busStub) Dispatch(_ context.Context, cmd commands.Command) (any, error) {
	b.got = append(b.got, cmd)
	if b.err != nil {
		return nil, b.err
	}
	return &dto.PaymentConfirmation{}, nil
}

func TestPaymentEventsHandlerDispatchesConfirmation(t *testing.T) {
	bus := &busStub{}
	h := &PaymentEventsHandler{Commands: bus}
	msg := &sarama.ConsumerMessage{Value: []byte(`{"id":"evt-1","type":"payment.succeeded.v1","data":{"booking_id":"b1","payment_ref":"pi_1"}}`)}
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(bus.got) != 1 {
		t.Fatalf("expected one command, got %d", len(bus.got))
	}
	cmd := bus.got[0].(checkout.ConfirmPaymentCommand)
	if cmd.EventID != "evt-1" || cmd.BookingID != "b1" || cmd.PaymentRef != "pi_1" || cmd.Status != checkout.PaymentSucceeded {
		t.Fatalf("unexpected command %+v", cmd)
	}
}

func TestPaymentEventsHandlerSkipsPoisonAndForeignMessages(t *testing.T) {
	bus := &busStub{}
	h := &PaymentEventsHandler{Commands: bus}
	for _, raw := range []string{`not json`, `{"id":"e","type":"refund.created","data":{"booking_id":"b"}}`, `{"type":"payment.failed"}`} {
		if err := h.Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte(raw)}); err != nil {
			t.Fatalf("%s: expected nil, got %v", raw, err)
		}
	}
	if len(bus.got) != 0 {
		t.Fatalf("expected no commands, got %d", len(bus.got))
	}
}

func TestPaymentEventsHandlerPropagatesDispatchErrors(t *testing.T) {
	bus := &busStub{err: errors.New("mongo down")}
	h := &PaymentEventsHandler{Commands: bus}
	msg := &sarama.ConsumerMessage{Value: []byte(`{"id":"evt-2","type":"payment.failed","data":{"booking_id":"b1"}}`)}
	if err := h.Handle(context.Background(), msg); err == nil {
		t.Fatal("expected dispatch error to surface for redelivery")
	}
}
