package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"libroflow/internal/model"
)

// LoanEventRepository defines circulation audit log persistence operations.
type LoanEventRepository interface {
	Create(ctx context.Context, event *model.LoanEvent) error
	CreateBatch(ctx context.Context, events []model.LoanEvent) error
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]model.LoanEvent, error)
}

type loanEventRepository struct {
	db *gorm.DB
}

// NewLoanEventRepository creates a new loan event repository.
func NewLoanEventRepository(db *gorm.DB) LoanEventRepository {
	return &loanEventRepository{db: db}
}

// Create creates a single audit entry.
func (r *loanEventRepository) Create(ctx context.Context, event *model.LoanEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateBatch creates multiple audit entries in a single transaction.
func (r *loanEventRepository) CreateBatch(ctx context.Context, events []model.LoanEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 100).Error
}

// ListByLoan returns the audit trail of one loan, oldest first.
func (r *loanEventRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]model.LoanEvent, error) {
	var events []model.LoanEvent
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).
		Order("created_at asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
