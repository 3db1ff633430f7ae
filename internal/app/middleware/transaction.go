package middleware

import (
	"context"
	"errors"

	"directstay/internal/app/commands"
	"directstay/internal/app/outbox"
	"directstay/internal/app/uow"
	domainbooking "directstay/internal/domain/booking"
)

// TxPolicy configures the unit of work wrapped around each command.
type TxPolicy struct {
	// Options picks per-command transaction options; nil means read-write.
	Options func(cmd commands.Command) uow.TxOptions
	// Outbox is flushed inside the unit, before commit, so event records share the command's fate.
	Outbox outbox.Outbox
	// MaxAttempts bounds reruns after a Retryable error. Values below 1 mean a single attempt.
	MaxAttempts int
	Retryable   func(err error) bool
}

// RetryOnBookingConflict reruns commands that lost an optimistic version check on a booking,
// such as a payment confirmation arriving from the broker and the HTTP relay at once.
func RetryOnBookingConflict(err error) bool {
	return errors.Is(err, domainbooking.ErrConcurrentUpdate)
}

// Transaction runs each command inside a unit of work that commits only on success.
func Transaction(factory uow.UoWFactory, policy TxPolicy) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			var (
				res any
				err error
			)
			for attempt := 1; attempt <= attempts; attempt++ {
				res, err = runInUnit(ctx, factory, policy, next, cmd)
				if err == nil || policy.Retryable == nil || !policy.Retryable(err) {
					return res, err
				}
				if ctx.Err() != nil {
					return nil, err
				}
			}
			return nil, err
		})
	}
}

func runInUnit(ctx context.Context, factory uow.UoWFactory, policy TxPolicy, next commands.Bus, cmd commands.Command) (any, error) {
	opts := uow.TxOptions{}
	if policy.Options != nil {
		opts = policy.Options(cmd)
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, err
	}
	execCtx := uow.ContextWithUnitOfWork(uow.Inject(ctx, unit), unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(execCtx)
		}
	}()

	res, err := next.Dispatch(execCtx, cmd)
	if err != nil {
		return nil, err
	}
	if policy.Outbox != nil {
		if err := policy.Outbox.Flush(execCtx); err != nil {
			return nil, err
		}
	}
	if err := unit.Commit(execCtx); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}
