package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libroflow/internal/errors"
	"libroflow/internal/model"
)

type lendingFixture struct {
	bookRepo *fakeBookRepo
	loanRepo *fakeLoanRepo
	svc      *lendingService
}

func newLendingFixture(t *testing.T, at time.Time) *lendingFixture {
	t.Helper()
	bookRepo := newFakeBookRepo()
	loanRepo := newFakeLoanRepo()
	svc := NewLendingService(
		bookRepo, loanRepo, newFakeLoanEventRepo(), newFakeUserRepo(),
		nil, 14, decimal.NewFromInt(10),
	).(*lendingService)
	svc.now = func() time.Time { return at }
	return &lendingFixture{bookRepo: bookRepo, loanRepo: loanRepo, svc: svc}
}

func TestLendingService_Issue(t *testing.T) {
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	f := newLendingFixture(t, base)
	bookID := f.bookRepo.add(model.Book{Title: "Clean Code", Quantity: 5, Available: 3})
	userID := uuid.New()

	loan, err := f.svc.Issue(context.Background(), userID, bookID)
	require.NoError(t, err)
	require.NotNil(t, loan)

	assert.Equal(t, model.LoanStatusIssued, loan.Status)
	assert.Equal(t, bookID, loan.BookID)
	assert.Equal(t, userID, loan.UserID)
	assert.Equal(t, base, loan.IssueDate)
	assert.Equal(t, base.Add(14*24*time.Hour), loan.DueDate)
	assert.Nil(t, loan.ReturnDate)
	assert.True(t, loan.Fine.IsZero())

	book, err := f.bookRepo.FindByID(context.Background(), bookID)
	require.NoError(t, err)
	assert.Equal(t, 2, book.Available)
	assert.Equal(t, 5, book.Quantity)
}

func TestLendingService_IssueUnknownBook(t *testing.T) {
	f := newLendingFixture(t, time.Now())

	loan, err := f.svc.Issue(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, errors.ErrBookNotFound)
	assert.Nil(t, loan)
}

func TestLendingService_IssueOutOfStock(t *testing.T) {
	f := newLendingFixture(t, time.Now())
	bookID := f.bookRepo.add(model.Book{Title: "Rare Print", Quantity: 2, Available: 0})

	loan, err := f.svc.Issue(context.Background(), uuid.New(), bookID)
	assert.ErrorIs(t, err, errors.ErrBookOutOfStock)
	assert.Nil(t, loan)

	// Failed issue must leave no trace: no loan record, availability untouched.
	loans, err := f.loanRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loans)

	book, err := f.bookRepo.FindByID(context.Background(), bookID)
	require.NoError(t, err)
	assert.Equal(t, 0, book.Available)
}

func TestLendingService_Return(t *testing.T) {
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	f := newLendingFixture(t, base)
	bookID := f.bookRepo.add(model.Book{Title: "Clean Code", Quantity: 5, Available: 3})

	loan, err := f.svc.Issue(context.Background(), uuid.New(), bookID)
	require.NoError(t, err)

	returnedAt := base.Add(5 * 24 * time.Hour)
	f.svc.now = func() time.Time { return returnedAt }

	returned, err := f.svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, returnedAt, *returned.ReturnDate)
	assert.True(t, returned.Fine.IsZero())

	// Issue then return restores the availability seen before the issue.
	book, err := f.bookRepo.FindByID(context.Background(), bookID)
	require.NoError(t, err)
	assert.Equal(t, 3, book.Available)
}

func TestLendingService_ReturnUnknownLoan(t *testing.T) {
	f := newLendingFixture(t, time.Now())

	_, err := f.svc.Return(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errors.ErrLoanNotFound)
}

func TestLendingService_DoubleReturn(t *testing.T) {
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	f := newLendingFixture(t, base)
	bookID := f.bookRepo.add(model.Book{Title: "Single Copy", Quantity: 1, Available: 1})

	loan, err := f.svc.Issue(context.Background(), uuid.New(), bookID)
	require.NoError(t, err)

	_, err = f.svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)

	// Second return is a no-op and must not inflate availability.
	again, err := f.svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusReturned, again.Status)

	book, err := f.bookRepo.FindByID(context.Background(), bookID)
	require.NoError(t, err)
	assert.Equal(t, 1, book.Available)
}

func TestLendingService_ReturnAfterBookDeleted(t *testing.T) {
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	f := newLendingFixture(t, base)
	bookID := f.bookRepo.add(model.Book{Title: "Withdrawn", Quantity: 1, Available: 1})

	loan, err := f.svc.Issue(context.Background(), uuid.New(), bookID)
	require.NoError(t, err)

	f.bookRepo.remove(bookID)

	// The loan still closes; there is just nothing left to restock.
	returned, err := f.svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusReturned, returned.Status)
}

func TestLendingService_Fine(t *testing.T) {
	due := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	at := func(offset time.Duration) time.Time { return due.Add(offset) }
	returnedAt := func(offset time.Duration) *time.Time {
		ts := due.Add(offset)
		return &ts
	}

	tests := []struct {
		name     string
		loan     model.Loan
		at       time.Time
		expected int64
	}{
		{
			name:     "issued before due date",
			loan:     model.Loan{Status: model.LoanStatusIssued, DueDate: due},
			at:       at(-time.Hour),
			expected: 0,
		},
		{
			name:     "issued exactly at due date",
			loan:     model.Loan{Status: model.LoanStatusIssued, DueDate: due},
			at:       due,
			expected: 0,
		},
		{
			name:     "issued twelve hours late charges nothing yet",
			loan:     model.Loan{Status: model.LoanStatusIssued, DueDate: due},
			at:       at(12 * time.Hour),
			expected: 0,
		},
		{
			name:     "issued thirty-six hours late charges one day",
			loan:     model.Loan{Status: model.LoanStatusIssued, DueDate: due},
			at:       at(36 * time.Hour),
			expected: 10,
		},
		{
			name:     "issued twenty days late",
			loan:     model.Loan{Status: model.LoanStatusIssued, DueDate: due},
			at:       at(20 * 24 * time.Hour),
			expected: 200,
		},
		{
			name: "returned on time",
			loan: model.Loan{
				Status: model.LoanStatusReturned, DueDate: due,
				ReturnDate: returnedAt(-24 * time.Hour),
			},
			at:       at(100 * 24 * time.Hour),
			expected: 0,
		},
		{
			name: "returned late is frozen at the return date",
			loan: model.Loan{
				Status: model.LoanStatusReturned, DueDate: due,
				ReturnDate: returnedAt(3*24*time.Hour + 12*time.Hour),
			},
			at:       at(100 * 24 * time.Hour),
			expected: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLendingFixture(t, tt.at)
			fine := f.svc.Fine(&tt.loan, tt.at)
			assert.True(t, decimal.NewFromInt(tt.expected).Equal(fine),
				"expected %d, got %s", tt.expected, fine)
		})
	}
}

// Full circulation walkthrough: borrow a copy, let it go six days overdue,
// return it, and check the fine freezes at the return date.
func TestLendingService_OverdueWalkthrough(t *testing.T) {
	issuedAt := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	f := newLendingFixture(t, issuedAt)
	bookID := f.bookRepo.add(model.Book{Title: "Clean Code", Quantity: 5, Available: 3})

	loan, err := f.svc.Issue(context.Background(), uuid.New(), bookID)
	require.NoError(t, err)

	book, err := f.bookRepo.FindByID(context.Background(), bookID)
	require.NoError(t, err)
	assert.Equal(t, 2, book.Available)

	// Twenty days after issue: six days past the fourteen day period.
	later := issuedAt.Add(20 * 24 * time.Hour)
	assert.True(t, f.svc.IsOverdue(loan, later))
	assert.True(t, decimal.NewFromInt(60).Equal(f.svc.Fine(loan, later)))

	f.svc.now = func() time.Time { return later }
	returned, err := f.svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)

	book, err = f.bookRepo.FindByID(context.Background(), bookID)
	require.NoError(t, err)
	assert.Equal(t, 3, book.Available)

	// The fine is now pinned to the return date, however late we look.
	muchLater := later.Add(365 * 24 * time.Hour)
	assert.False(t, f.svc.IsOverdue(returned, muchLater))
	assert.True(t, decimal.NewFromInt(60).Equal(f.svc.Fine(returned, muchLater)))
}

func TestLendingService_IsOverdue(t *testing.T) {
	due := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	f := newLendingFixture(t, due)

	issued := &model.Loan{Status: model.LoanStatusIssued, DueDate: due}
	assert.False(t, f.svc.IsOverdue(issued, due.Add(-time.Minute)))
	assert.False(t, f.svc.IsOverdue(issued, due))
	assert.True(t, f.svc.IsOverdue(issued, due.Add(time.Minute)))

	returned := &model.Loan{Status: model.LoanStatusReturned, DueDate: due}
	assert.False(t, f.svc.IsOverdue(returned, due.Add(time.Hour)))
}

func TestLendingService_DashboardStats(t *testing.T) {
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	f := newLendingFixture(t, base)

	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &model.User{Name: "A", Email: "a@example.com"}))
	require.NoError(t, userRepo.Create(context.Background(), &model.User{Name: "B", Email: "b@example.com"}))
	f.svc.userRepo = userRepo

	first := f.bookRepo.add(model.Book{Title: "First", Quantity: 5, Available: 5})
	f.bookRepo.add(model.Book{Title: "Second", Quantity: 3, Available: 3})

	_, err := f.svc.Issue(context.Background(), uuid.New(), first)
	require.NoError(t, err)
	second, err := f.svc.Issue(context.Background(), uuid.New(), first)
	require.NoError(t, err)

	// Twenty days past due: both loans overdue at 200 each.
	f.svc.now = func() time.Time { return second.DueDate.Add(20 * 24 * time.Hour) }

	stats, err := f.svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, stats.TotalBooks)
	assert.Equal(t, 2, stats.IssuedBooks)
	assert.Equal(t, 2, stats.OverdueBooks)
	assert.Equal(t, 2, stats.ActiveUsers)
	assert.True(t, decimal.NewFromInt(400).Equal(stats.TotalFines),
		"expected 400, got %s", stats.TotalFines)
}

func TestLendingService_LoanEventsUnknownLoan(t *testing.T) {
	f := newLendingFixture(t, time.Now())

	_, err := f.svc.LoanEvents(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errors.ErrLoanNotFound)
}
