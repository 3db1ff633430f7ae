package middleware

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"directstay/internal/app/commands"
	"directstay/internal/app/outbox"
	"directstay/internal/app/uow"
	domainbooking "directstay/internal/domain/booking"
	domaininvoice "directstay/internal/domain/invoice"
	domainpromo "directstay/internal/domain/promo"
)

type stubUnit struct {
	commits, rollbacks *int
}

func (stubUnit) Bookings() domainbooking.Repository { return nil }
func (stubUnit) Promos() domainpromo.Repository     { return nil }
func (stubUnit) Invoices() domaininvoice.Repository { return nil }
func (u stubUnit) Commit(context.Context) error {
	*u.commits++
	return nil
}
func (u stubUnit) Rollback(context.Context) error {
	*u.rollbacks++
	return nil
}

type stubFactory struct {
	begins, commits, rollbacks int
}

func (f *stubFactory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	f.begins++
	return stubUnit{commits: &f.commits, rollbacks: &f.rollbacks}, nil
}

type stubOutbox struct{ flushes int }

func (o *stubOutbox) Add(context.Context, outbox.EventRecord) error { return nil }
func (o *stubOutbox) Flush(context.Context) error {
	o.flushes++
	return nil
}

type pingCommand struct{ Code string }

func (pingCommand) Key() string { return "test.ping" }

func (c pingCommand) Normalize() any {
	c.Code = domainpromo.NormalizeCode(c.Code)
	return c
}

func TestTransactionRetriesBookingConflicts(t *testing.T) {
	factory := &stubFactory{}
	box := &stubOutbox{}
	calls := 0
	base := commandFunc(func(context.Context, commands.Command) (any, error) {
		calls++
		if calls < 3 {
			return nil, fmt.Errorf("save: %w", domainbooking.ErrConcurrentUpdate)
		}
		return "ok", nil
	})
	bus := ChainCommands(base, Transaction(factory, TxPolicy{Outbox: box, MaxAttempts: 3, Retryable: RetryOnBookingConflict}))

	res, err := bus.Dispatch(context.Background(), pingCommand{})
	if err != nil || res != "ok" {
		t.Fatalf("dispatch = %v, %v", res, err)
	}
	if factory.begins != 3 || factory.commits != 1 || factory.rollbacks != 2 {
		t.Fatalf("begins=%d commits=%d rollbacks=%d", factory.begins, factory.commits, factory.rollbacks)
	}
	if box.flushes != 1 {
		t.Fatalf("outbox flushed %d times, want 1", box.flushes)
	}
}

func TestTransactionDoesNotRetryOtherErrors(t *testing.T) {
	factory := &stubFactory{}
	boom := errors.New("boom")
	base := commandFunc(func(context.Context, commands.Command) (any, error) { return nil, boom })
	bus := ChainCommands(base, Transaction(factory, TxPolicy{MaxAttempts: 5, Retryable: RetryOnBookingConflict}))

	if _, err := bus.Dispatch(context.Background(), pingCommand{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if factory.begins != 1 || factory.commits != 0 {
		t.Fatalf("begins=%d commits=%d", factory.begins, factory.commits)
	}
}

type recordingValidator struct{ seen any }

func (v *recordingValidator) Validate(_ context.Context, message any) error {
	v.seen = message
	return nil
}

func TestValidationNormalizesBeforeHandlers(t *testing.T) {
	v := &recordingValidator{}
	var handled commands.Command
	base := commandFunc(func(_ context.Context, cmd commands.Command) (any, error) {
		handled = cmd
		return nil, nil
	})
	bus := ChainCommands(base, nil, Validation(v))

	if _, err := bus.Dispatch(context.Background(), pingCommand{Code: "  summer10 "}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := handled.(pingCommand).Code; got != "SUMMER10" {
		t.Fatalf("handler saw %q", got)
	}
	if got := v.seen.(pingCommand).Code; got != "SUMMER10" {
		t.Fatalf("validator saw %q", got)
	}
}
