package middleware

import (
	"context"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/uow"
)

type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// SelfManagedTransaction marks commands that open their own units of work,
// such as batch reseeding that commits per batch.
type SelfManagedTransaction interface {
	ManagesTransactions() bool
}

// Transaction runs each command inside one unit of work.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if self, ok := cmd.(SelfManagedTransaction); ok && self.ManagesTransactions() {
				return nextFn(ctx, cmd)
			}
			opts := uow.TxOptions{}
			if optsProvider != nil {
				opts = optsProvider(cmd)
			}
			var res any
			err := uow.Within(ctx, factory, opts, func(execCtx context.Context, _ uow.UnitOfWork) error {
				out, err := nextFn(execCtx, cmd)
				if err != nil {
					return err
				}
				res = out
				return nil
			})
			if err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
