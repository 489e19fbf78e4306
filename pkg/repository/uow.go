// Package repository defines the unit-of-work contract tying the
// per-entity repositories to one transactional session.
package repository

import (
	"context"
	"reflect"

	accountrepo "github.com/pennywiseapp/pennywise/pkg/repository/account"
	budgetrepo "github.com/pennywiseapp/pennywise/pkg/repository/budget"
	categoryrepo "github.com/pennywiseapp/pennywise/pkg/repository/category"
	notificationrepo "github.com/pennywiseapp/pennywise/pkg/repository/notification"
	transactionrepo "github.com/pennywiseapp/pennywise/pkg/repository/transaction"
	transferrepo "github.com/pennywiseapp/pennywise/pkg/repository/transfer"
)

// UnitOfWork defines the contract for transactional work and typed
// repository access. All repositories obtained from one UnitOfWork share
// the same session, so multi-row writes (transfer legs plus their
// record, a transaction plus the budget it moves) commit or roll back as
// one.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an
	// error, every write made through the provided UnitOfWork is rolled
	// back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface
	// type, bound to the current session.
	GetRepository(repoType reflect.Type) (any, error)

	// Typed accessors over GetRepository.
	AccountRepository() (accountrepo.Repository, error)
	CategoryRepository() (categoryrepo.Repository, error)
	TransactionRepository() (transactionrepo.Repository, error)
	TransferRepository() (transferrepo.Repository, error)
	BudgetRepository() (budgetrepo.Repository, error)
	NotificationRepository() (notificationrepo.Repository, error)
}
