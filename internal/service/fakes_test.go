package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"libroflow/internal/model"
)

// In-memory repository fakes for exercising the transactional services
// without a database. Transaction callbacks run against the same state, so
// the Tx variants simply ignore the tx handle.

type fakeBookRepo struct {
	mu    sync.Mutex
	books map[uuid.UUID]*model.Book
	order []uuid.UUID
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]*model.Book)}
}

func (r *fakeBookRepo) add(book model.Book) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	r.books[book.ID] = &book
	r.order = append(r.order, book.ID)
	return book.ID
}

func (r *fakeBookRepo) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
}

func (r *fakeBookRepo) Create(ctx context.Context, book *model.Book) error {
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	r.add(*book)
	return nil
}

func (r *fakeBookRepo) Update(ctx context.Context, book *model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[book.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *book
	r.books[book.ID] = &copied
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *book
	return &copied, nil
}

func (r *fakeBookRepo) List(ctx context.Context) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Book, 0, len(r.books))
	for _, id := range r.order {
		if book, ok := r.books[id]; ok {
			out = append(out, *book)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.books)), nil
}

func (r *fakeBookRepo) ReplaceAll(ctx context.Context, books []model.Book) error {
	r.mu.Lock()
	r.books = make(map[uuid.UUID]*model.Book)
	r.order = nil
	r.mu.Unlock()
	for i := range books {
		r.add(books[i])
	}
	return nil
}

func (r *fakeBookRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interface{}) error) error {
	return fn(ctx, nil)
}

func (r *fakeBookRepo) FindByIDForUpdateTx(ctx context.Context, tx interface{}, id uuid.UUID) (*model.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookRepo) UpdateAvailableTx(ctx context.Context, tx interface{}, id uuid.UUID, available int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	book.Available = available
	return nil
}

func (r *fakeBookRepo) DeleteTx(ctx context.Context, tx interface{}, id uuid.UUID) error {
	r.remove(id)
	return nil
}

type fakeLoanRepo struct {
	mu    sync.Mutex
	loans map[uuid.UUID]*model.Loan
	order []uuid.UUID
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[uuid.UUID]*model.Loan)}
}

func (r *fakeLoanRepo) put(loan *model.Loan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	if _, ok := r.loans[loan.ID]; !ok {
		r.order = append(r.order, loan.ID)
	}
	copied := *loan
	r.loans[loan.ID] = &copied
}

func (r *fakeLoanRepo) Create(ctx context.Context, loan *model.Loan) error {
	r.put(loan)
	return nil
}

func (r *fakeLoanRepo) Update(ctx context.Context, loan *model.Loan) error {
	r.put(loan)
	return nil
}

func (r *fakeLoanRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *loan
	return &copied, nil
}

func (r *fakeLoanRepo) List(ctx context.Context) ([]model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Loan, 0, len(r.loans))
	for _, id := range r.order {
		if loan, ok := r.loans[id]; ok {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Loan, error) {
	all, _ := r.List(ctx)
	out := make([]model.Loan, 0, len(all))
	for _, loan := range all {
		if loan.UserID == userID {
			out = append(out, loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) CountIssuedByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	all, _ := r.List(ctx)
	var count int64
	for _, loan := range all {
		if loan.BookID == bookID && loan.Status == model.LoanStatusIssued {
			count++
		}
	}
	return count, nil
}

func (r *fakeLoanRepo) CreateTx(ctx context.Context, tx interface{}, loan *model.Loan) error {
	return r.Create(ctx, loan)
}

func (r *fakeLoanRepo) UpdateTx(ctx context.Context, tx interface{}, loan *model.Loan) error {
	return r.Update(ctx, loan)
}

func (r *fakeLoanRepo) DeleteByBookTx(ctx context.Context, tx interface{}, bookID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, loan := range r.loans {
		if loan.BookID == bookID {
			delete(r.loans, id)
		}
	}
	return nil
}

type fakeLoanEventRepo struct {
	mu     sync.Mutex
	events []model.LoanEvent
}

func newFakeLoanEventRepo() *fakeLoanEventRepo {
	return &fakeLoanEventRepo{}
}

func (r *fakeLoanEventRepo) Create(ctx context.Context, event *model.LoanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeLoanEventRepo) CreateBatch(ctx context.Context, events []model.LoanEvent) error {
	for i := range events {
		if err := r.Create(ctx, &events[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeLoanEventRepo) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]model.LoanEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.LoanEvent, 0)
	for _, event := range r.events {
		if event.LoanID == loanID {
			out = append(out, event)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}
