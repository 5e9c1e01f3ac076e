package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/queries"
)

var ErrTimeout = errors.New("middleware: operation exceeded its time budget")

type result struct {
	value any
	err   error
}

// Timeout bounds every command by d. The handler's context is cancelled when
// the budget runs out and the caller gets ErrTimeout without waiting for it.
func Timeout(d time.Duration) CommandMiddleware {
	if d <= 0 {
		return nil
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			return runBounded(ctx, d, cmd.Key(), func(ctx context.Context) (any, error) {
				return nextFn(ctx, cmd)
			})
		})
	}
}

func QueryTimeout(d time.Duration) QueryMiddleware {
	if d <= 0 {
		return nil
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			return runBounded(ctx, d, q.Key(), func(ctx context.Context) (any, error) {
				return nextFn(ctx, q)
			})
		})
	}
}

func runBounded(ctx context.Context, d time.Duration, key string, fn func(context.Context) (any, error)) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%s: panic: %v", key, r)}
			}
		}()
		value, err := fn(ctx)
		done <- result{value: value, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, key)
		}
		return res.value, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, key)
		}
		return nil, ctx.Err()
	}
}
