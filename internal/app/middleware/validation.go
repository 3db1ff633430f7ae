package middleware

import (
	"context"

	"directstay/internal/app/commands"
	"directstay/internal/app/queries"
)

type Validator interface {
	Validate(ctx context.Context, message any) error
}

// Normalizer is implemented by messages that canonicalize guest or admin input
// (promo codes, emails) so validation and handlers see one spelling.
type Normalizer interface {
	Normalize() any
}

// Validation normalizes then validates commands; the normalized value is what handlers receive.
func Validation(v Validator) CommandMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			cmd = normalized(cmd)
			if err := v.Validate(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryValidation(v Validator) QueryMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			q = normalized(q)
			if err := v.Validate(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}

// normalized keeps the original message when Normalize returns a value of another kind.
func normalized[M interface{ Key() string }](msg M) M {
	n, ok := any(msg).(Normalizer)
	if !ok {
		return msg
	}
	if out, ok := n.Normalize().(M); ok {
		return out
	}
	return msg
}
