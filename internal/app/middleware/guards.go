package middleware

import (
	"context"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/queries"
)

// Validator checks a command or query before it reaches its handler.
type Validator interface {
	Validate(ctx context.Context, message any) error
}

// Authorizer decides whether the principal in ctx may run message.
type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// check is a precondition evaluated before the wrapped bus runs. A non-nil
// error short-circuits the chain.
type check func(ctx context.Context, message any) error

func (c check) commands() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := c(ctx, cmd); err != nil {
				return nil, err
			}
			return nextFn(ctx, cmd)
		})
	}
}

func (c check) queries() QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := c(ctx, q); err != nil {
				return nil, err
			}
			return nextFn(ctx, q)
		})
	}
}

func Validation(v Validator) CommandMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return check(v.Validate).commands()
}

func QueryValidation(v Validator) QueryMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return check(v.Validate).queries()
}

// Authorization runs after validation so malformed requests are reported as
// such even for anonymous callers.
func Authorization(a Authorizer) CommandMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return check(a.Authorize).commands()
}

func QueryAuthorization(a Authorizer) QueryMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return check(a.Authorize).queries()
}
