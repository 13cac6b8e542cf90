package memory

import (
	"context"
	"errors"

	"campstation/internal/app/uow"
	domainpricing "campstation/internal/domain/pricing"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	RulesRepo domainpricing.RuleRepository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin returns a unit without isolation; the snapshot is replaced atomically.
func (f Factory) Begin(_ context.Context, _ uow.TxOptions) (uow.UnitOfWork, error) {
	if f.RulesRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{rules: f.RulesRepo}, nil
}

type Unit struct {
	rules domainpricing.RuleRepository
}

func (u *Unit) Rules() domainpricing.RuleRepository {
	return u.rules
}

func (u *Unit) Commit(context.Context) error   { return nil }
func (u *Unit) Rollback(context.Context) error { return nil }
