package middleware

import (
	"context"
	"errors"

	"campstation/internal/app/queries"
)

// ErrValidation marks requests rejected before reaching a handler.
var ErrValidation = errors.New("middleware: request validation failed")

type Validator interface {
	Validate(ctx context.Context, message any) error
}

// QueryValidation rejects queries the validator refuses.
func QueryValidation(v Validator) QueryMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := v.Validate(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}
