// Package fixtures provides in-memory repository implementations and a
// unit of work for service-level tests. Writes made inside Do are
// rolled back when the function returns an error, mirroring the
// transactional repositories.
package fixtures

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/repository"
	accountrepo "github.com/pennywiseapp/pennywise/pkg/repository/account"
	budgetrepo "github.com/pennywiseapp/pennywise/pkg/repository/budget"
	categoryrepo "github.com/pennywiseapp/pennywise/pkg/repository/category"
	notificationrepo "github.com/pennywiseapp/pennywise/pkg/repository/notification"
	transactionrepo "github.com/pennywiseapp/pennywise/pkg/repository/transaction"
	transferrepo "github.com/pennywiseapp/pennywise/pkg/repository/transfer"
)

type accountRecord struct {
	read    dto.AccountRead
	deleted bool
}

type transactionRecord struct {
	read    dto.TransactionRead
	deleted bool
}

type categoryRecord struct {
	read    dto.CategoryRead
	deleted bool
}

type transferRecord struct {
	create  dto.TransferCreate
	read    dto.TransferRead
	deleted bool
}

type budgetRecord struct {
	read    dto.BudgetRead
	deleted bool
}

type notificationRecord struct {
	read dto.NotificationRead
}

// Store is the shared in-memory state behind one unit of work.
type Store struct {
	mu            sync.Mutex
	seq           int
	accounts      map[uuid.UUID]accountRecord
	transactions  map[uuid.UUID]transactionRecord
	categories    map[uuid.UUID]categoryRecord
	transfers     map[uuid.UUID]transferRecord
	budgets       map[uuid.UUID]budgetRecord
	notifications map[uuid.UUID]notificationRecord
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:      map[uuid.UUID]accountRecord{},
		transactions:  map[uuid.UUID]transactionRecord{},
		categories:    map[uuid.UUID]categoryRecord{},
		transfers:     map[uuid.UUID]transferRecord{},
		budgets:       map[uuid.UUID]budgetRecord{},
		notifications: map[uuid.UUID]notificationRecord{},
	}
}

func (s *Store) snapshot() *Store {
	cp := NewStore()
	for k, v := range s.accounts {
		cp.accounts[k] = v
	}
	for k, v := range s.transactions {
		cp.transactions[k] = v
	}
	for k, v := range s.categories {
		cp.categories[k] = v
	}
	for k, v := range s.transfers {
		cp.transfers[k] = v
	}
	for k, v := range s.budgets {
		cp.budgets[k] = v
	}
	for k, v := range s.notifications {
		cp.notifications[k] = v
	}
	cp.seq = s.seq
	return cp
}

func (s *Store) restore(from *Store) {
	s.accounts = from.accounts
	s.transactions = from.transactions
	s.categories = from.categories
	s.transfers = from.transfers
	s.budgets = from.budgets
	s.notifications = from.notifications
	s.seq = from.seq
}

// UnitOfWork is the in-memory repository.UnitOfWork used by tests.
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork creates a unit of work over a fresh store.
func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{store: NewStore()}
}

// Store exposes the underlying state for test assertions and seeding.
func (u *UnitOfWork) Store() *Store { return u.store }

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// Do implements repository.UnitOfWork. On error the store is restored
// to its pre-call state.
func (u *UnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.store.mu.Lock()
	before := u.store.snapshot()
	u.store.mu.Unlock()

	if err := fn(u); err != nil {
		u.store.mu.Lock()
		u.store.restore(before)
		u.store.mu.Unlock()
		return err
	}
	return nil
}

// GetRepository implements repository.UnitOfWork.
func (u *UnitOfWork) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*accountrepo.Repository)(nil)).Elem():
		return &accountRepository{store: u.store}, nil
	case reflect.TypeOf((*transactionrepo.Repository)(nil)).Elem():
		return &transactionRepository{store: u.store}, nil
	case reflect.TypeOf((*categoryrepo.Repository)(nil)).Elem():
		return &categoryRepository{store: u.store}, nil
	case reflect.TypeOf((*transferrepo.Repository)(nil)).Elem():
		return &transferRepository{store: u.store}, nil
	case reflect.TypeOf((*budgetrepo.Repository)(nil)).Elem():
		return &budgetRepository{store: u.store}, nil
	case reflect.TypeOf((*notificationrepo.Repository)(nil)).Elem():
		return &notificationRepository{store: u.store}, nil
	default:
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
}

// AccountRepository implements repository.UnitOfWork.
func (u *UnitOfWork) AccountRepository() (accountrepo.Repository, error) {
	return &accountRepository{store: u.store}, nil
}

// CategoryRepository implements repository.UnitOfWork.
func (u *UnitOfWork) CategoryRepository() (categoryrepo.Repository, error) {
	return &categoryRepository{store: u.store}, nil
}

// TransactionRepository implements repository.UnitOfWork.
func (u *UnitOfWork) TransactionRepository() (transactionrepo.Repository, error) {
	return &transactionRepository{store: u.store}, nil
}

// TransferRepository implements repository.UnitOfWork.
func (u *UnitOfWork) TransferRepository() (transferrepo.Repository, error) {
	return &transferRepository{store: u.store}, nil
}

// BudgetRepository implements repository.UnitOfWork.
func (u *UnitOfWork) BudgetRepository() (budgetrepo.Repository, error) {
	return &budgetRepository{store: u.store}, nil
}

// NotificationRepository implements repository.UnitOfWork.
func (u *UnitOfWork) NotificationRepository() (notificationrepo.Repository, error) {
	return &notificationRepository{store: u.store}, nil
}
