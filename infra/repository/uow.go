// Package repository provides the GORM-backed unit of work tying the
// per-entity repositories to one transactional session.
package repository

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"github.com/pennywiseapp/pennywise/pkg/repository"
	accountrepo "github.com/pennywiseapp/pennywise/pkg/repository/account"
	budgetrepo "github.com/pennywiseapp/pennywise/pkg/repository/budget"
	categoryrepo "github.com/pennywiseapp/pennywise/pkg/repository/category"
	notificationrepo "github.com/pennywiseapp/pennywise/pkg/repository/notification"
	transactionrepo "github.com/pennywiseapp/pennywise/pkg/repository/transaction"
	transferrepo "github.com/pennywiseapp/pennywise/pkg/repository/transfer"

	accountinfra "github.com/pennywiseapp/pennywise/infra/repository/account"
	budgetinfra "github.com/pennywiseapp/pennywise/infra/repository/budget"
	categoryinfra "github.com/pennywiseapp/pennywise/infra/repository/category"
	notificationinfra "github.com/pennywiseapp/pennywise/infra/repository/notification"
	transactioninfra "github.com/pennywiseapp/pennywise/infra/repository/transaction"
	transferinfra "github.com/pennywiseapp/pennywise/infra/repository/transfer"
)

// UoW provides a transaction boundary and repository access in one
// abstraction. Repositories obtained inside Do are bound to the open
// transaction; obtained outside, to the base session.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*accountrepo.Repository)(nil)).Elem():      func(db *gorm.DB) any { return accountinfra.New(db) },
			reflect.TypeOf((*categoryrepo.Repository)(nil)).Elem():     func(db *gorm.DB) any { return categoryinfra.New(db) },
			reflect.TypeOf((*transactionrepo.Repository)(nil)).Elem():  func(db *gorm.DB) any { return transactioninfra.New(db) },
			reflect.TypeOf((*transferrepo.Repository)(nil)).Elem():     func(db *gorm.DB) any { return transferinfra.New(db) },
			reflect.TypeOf((*budgetrepo.Repository)(nil)).Elem():       func(db *gorm.DB) any { return budgetinfra.New(db) },
			reflect.TypeOf((*notificationrepo.Repository)(nil)).Elem(): func(db *gorm.DB) any { return notificationinfra.New(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW
// whose repositories share the transaction session.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository provides generic access to repositories using the
// current session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

// AccountRepository implements repository.UnitOfWork.
func (u *UoW) AccountRepository() (accountrepo.Repository, error) {
	return getTyped[accountrepo.Repository](u)
}

// CategoryRepository implements repository.UnitOfWork.
func (u *UoW) CategoryRepository() (categoryrepo.Repository, error) {
	return getTyped[categoryrepo.Repository](u)
}

// TransactionRepository implements repository.UnitOfWork.
func (u *UoW) TransactionRepository() (transactionrepo.Repository, error) {
	return getTyped[transactionrepo.Repository](u)
}

// TransferRepository implements repository.UnitOfWork.
func (u *UoW) TransferRepository() (transferrepo.Repository, error) {
	return getTyped[transferrepo.Repository](u)
}

// BudgetRepository implements repository.UnitOfWork.
func (u *UoW) BudgetRepository() (budgetrepo.Repository, error) {
	return getTyped[budgetrepo.Repository](u)
}

// NotificationRepository implements repository.UnitOfWork.
func (u *UoW) NotificationRepository() (notificationrepo.Repository, error) {
	return getTyped[notificationrepo.Repository](u)
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func getTyped[T any](u *UoW) (T, error) {
	var zero T
	raw, err := u.GetRepository(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("repository has unexpected type %T", raw)
	}
	return typed, nil
}
