package uow

import (
	"context"

	domainpricing "campstation/internal/domain/pricing"
)

// UnitOfWork scopes repository access to one consistent read (or write) session.
type UnitOfWork interface {
	Rules() domainpricing.RuleRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
