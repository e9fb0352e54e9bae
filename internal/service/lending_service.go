package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"libroflow/internal/cache"
	"libroflow/internal/errors"
	"libroflow/internal/model"
	"libroflow/internal/repository"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 30 * time.Second
)

// LendingService issues and returns loans, classifies overdue state and
// computes fines. It is the only writer of loan records.
type LendingService interface {
	Issue(ctx context.Context, userID, bookID uuid.UUID) (*model.Loan, error)
	Return(ctx context.Context, loanID uuid.UUID) (*model.Loan, error)
	Fine(loan *model.Loan, at time.Time) decimal.Decimal
	IsOverdue(loan *model.Loan, at time.Time) bool
	ListLoans(ctx context.Context) ([]model.Loan, error)
	ListUserLoans(ctx context.Context, userID uuid.UUID) ([]model.Loan, error)
	LoanEvents(ctx context.Context, loanID uuid.UUID) ([]model.LoanEvent, error)
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type lendingService struct {
	bookRepo   repository.BookRepository
	loanRepo   repository.LoanRepository
	eventRepo  repository.LoanEventRepository
	userRepo   repository.UserRepository
	cache      *cache.Client
	loanPeriod time.Duration
	finePerDay decimal.Decimal
	now        func() time.Time
	// Channel for async audit logging
	eventChannel chan model.LoanEvent
}

// NewLendingService creates a new lending service. loanPeriodDays and
// finePerDay are policy knobs from configuration.
func NewLendingService(
	bookRepo repository.BookRepository,
	loanRepo repository.LoanRepository,
	eventRepo repository.LoanEventRepository,
	userRepo repository.UserRepository,
	cache *cache.Client,
	loanPeriodDays int,
	finePerDay decimal.Decimal,
) LendingService {
	service := &lendingService{
		bookRepo:     bookRepo,
		loanRepo:     loanRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		cache:        cache,
		loanPeriod:   time.Duration(loanPeriodDays) * 24 * time.Hour,
		finePerDay:   finePerDay,
		now:          time.Now,
		eventChannel: make(chan model.LoanEvent, 100),
	}

	// Start async audit log worker
	go service.eventWorker(context.Background())

	return service
}

// eventWorker persists circulation audit entries in batches.
func (s *lendingService) eventWorker(ctx context.Context) {
	batch := make([]model.LoanEvent, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-s.eventChannel:
			if !ok {
				if len(batch) > 0 {
					_ = s.eventRepo.CreateBatch(ctx, batch)
				}
				return
			}
			batch = append(batch, event)
			if len(batch) >= 10 {
				_ = s.eventRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = s.eventRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			return
		}
	}
}

// recordEvent queues an audit entry without blocking the caller.
func (s *lendingService) recordEvent(ctx context.Context, loanID uuid.UUID, eventType model.LoanEventType, note string) {
	event := model.LoanEvent{
		LoanID: loanID,
		Type:   eventType,
		Note:   note,
	}

	select {
	case s.eventChannel <- event:
	default:
		// Channel full, log synchronously as fallback
		_ = s.eventRepo.Create(ctx, &event)
	}
}

// Issue checks a copy out to a user. It fails without side effects when the
// book does not exist or has no available copies. Stock decrement and loan
// creation happen in one transaction.
func (s *lendingService) Issue(ctx context.Context, userID, bookID uuid.UUID) (*model.Loan, error) {
	var loan *model.Loan

	err := s.bookRepo.WithTransaction(ctx, func(ctx context.Context, tx interface{}) error {
		book, err := s.bookRepo.FindByIDForUpdateTx(ctx, tx, bookID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrBookNotFound
			}
			return fmt.Errorf("find book: %w", err)
		}

		if book.Available <= 0 {
			return errors.ErrBookOutOfStock
		}

		if err := s.bookRepo.UpdateAvailableTx(ctx, tx, bookID, book.Available-1); err != nil {
			return fmt.Errorf("update availability: %w", err)
		}

		now := s.now()
		loan = &model.Loan{
			BookID:    bookID,
			UserID:    userID,
			IssueDate: now,
			DueDate:   now.Add(s.loanPeriod),
			Status:    model.LoanStatusIssued,
			Fine:      decimal.Zero,
		}
		if err := s.loanRepo.CreateTx(ctx, tx, loan); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, loan.ID, model.LoanEventIssued, "")
	s.invalidate(ctx)
	return loan, nil
}

// Return closes a loan and puts the copy back on the shelf. Returning a loan
// that is not ISSUED is a no-op, so a double return can never inflate
// availability. When the book was deleted in the meantime the stock
// adjustment is skipped rather than failing.
func (s *lendingService) Return(ctx context.Context, loanID uuid.UUID) (*model.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrLoanNotFound
		}
		return nil, err
	}

	if loan.Status != model.LoanStatusIssued {
		return loan, nil
	}

	err = s.bookRepo.WithTransaction(ctx, func(ctx context.Context, tx interface{}) error {
		now := s.now()
		loan.ReturnDate = &now
		loan.Status = model.LoanStatusReturned
		// Stored fine is a display hint; reads always recompute from dates.
		loan.Fine = s.Fine(loan, now)
		if err := s.loanRepo.UpdateTx(ctx, tx, loan); err != nil {
			return fmt.Errorf("update loan: %w", err)
		}

		book, err := s.bookRepo.FindByIDForUpdateTx(ctx, tx, loan.BookID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				// Book was deleted while the copy was out; nothing to restock.
				return nil
			}
			return fmt.Errorf("find book: %w", err)
		}

		available := book.Available + 1
		if available > book.Quantity {
			available = book.Quantity
		}
		if err := s.bookRepo.UpdateAvailableTx(ctx, tx, book.ID, available); err != nil {
			return fmt.Errorf("update availability: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, loan.ID, model.LoanEventReturned, "")
	s.invalidate(ctx)
	return loan, nil
}

// Fine computes the penalty for a loan as of the given time. It is pure:
// RETURNED loans are charged per whole day between due and return date,
// ISSUED loans per whole day between due date and now. Fractional days are
// dropped, not rounded.
func (s *lendingService) Fine(loan *model.Loan, at time.Time) decimal.Decimal {
	switch loan.Status {
	case model.LoanStatusReturned:
		if loan.ReturnDate != nil && loan.ReturnDate.After(loan.DueDate) {
			return s.finePerDay.Mul(decimal.NewFromInt(wholeDays(loan.DueDate, *loan.ReturnDate)))
		}
	case model.LoanStatusIssued:
		if at.After(loan.DueDate) {
			return s.finePerDay.Mul(decimal.NewFromInt(wholeDays(loan.DueDate, at)))
		}
	}
	return decimal.Zero
}

// IsOverdue reports whether an outstanding loan is past its due date.
// Overdue is a derived view, never a stored status.
func (s *lendingService) IsOverdue(loan *model.Loan, at time.Time) bool {
	return loan.Status == model.LoanStatusIssued && at.After(loan.DueDate)
}

// wholeDays returns the floor of the elapsed time between from and to in
// 24 hour days.
func wholeDays(from, to time.Time) int64 {
	return int64(to.Sub(from).Hours() / 24)
}

// ListLoans returns every loan in the ledger.
func (s *lendingService) ListLoans(ctx context.Context) ([]model.Loan, error) {
	return s.loanRepo.List(ctx)
}

// ListUserLoans returns one borrower's loans.
func (s *lendingService) ListUserLoans(ctx context.Context, userID uuid.UUID) ([]model.Loan, error) {
	return s.loanRepo.ListByUser(ctx, userID)
}

// LoanEvents returns the audit trail of a loan.
func (s *lendingService) LoanEvents(ctx context.Context, loanID uuid.UUID) ([]model.LoanEvent, error) {
	if _, err := s.loanRepo.FindByID(ctx, loanID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrLoanNotFound
		}
		return nil, err
	}
	return s.eventRepo.ListByLoan(ctx, loanID)
}

// DashboardStats derives circulation aggregates from current state. Values
// are recomputed on every call; the short cache only smooths dashboard polling.
func (s *lendingService) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	if data, _ := s.cache.Get(ctx, statsCacheKey); data != nil {
		var cached model.DashboardStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	userCount, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	now := s.now()
	stats := &model.DashboardStats{
		ActiveUsers: int(userCount),
		TotalFines:  decimal.Zero,
	}
	for _, b := range books {
		stats.TotalBooks += b.Quantity
	}
	for i := range loans {
		loan := &loans[i]
		if loan.Status == model.LoanStatusIssued {
			stats.IssuedBooks++
		}
		if s.IsOverdue(loan, now) {
			stats.OverdueBooks++
		}
		stats.TotalFines = stats.TotalFines.Add(s.Fine(loan, now))
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, statsCacheKey, payload, statsCacheTTL)
	}
	return stats, nil
}

// invalidate drops cached views that depend on stock or loan state.
func (s *lendingService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, bookListCacheKey)
	_ = s.cache.Delete(ctx, statsCacheKey)
}
