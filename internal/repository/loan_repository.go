package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"libroflow/internal/model"
)

// LoanRepository defines loan persistence operations.
type LoanRepository interface {
	Create(ctx context.Context, loan *model.Loan) error
	Update(ctx context.Context, loan *model.Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	List(ctx context.Context) ([]model.Loan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Loan, error)
	CountIssuedByBook(ctx context.Context, bookID uuid.UUID) (int64, error)
	// Transaction methods
	CreateTx(ctx context.Context, tx interface{}, loan *model.Loan) error
	UpdateTx(ctx context.Context, tx interface{}, loan *model.Loan) error
	DeleteByBookTx(ctx context.Context, tx interface{}, bookID uuid.UUID) error
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository.
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan record.
func (r *loanRepository) Create(ctx context.Context, loan *model.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// Update updates an existing loan record.
func (r *loanRepository) Update(ctx context.Context, loan *model.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// FindByID finds a loan by ID.
func (r *loanRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	var loan model.Loan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

// List returns all loans, oldest first.
func (r *loanRepository) List(ctx context.Context) ([]model.Loan, error) {
	var loans []model.Loan
	if err := r.db.WithContext(ctx).Order("issue_date asc").Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// ListByUser returns all loans for one borrower, oldest first.
func (r *loanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Loan, error) {
	var loans []model.Loan
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("issue_date asc").Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// CountIssuedByBook counts outstanding loans on a book.
func (r *loanRepository) CountIssuedByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Loan{}).
		Where("book_id = ? AND status = ?", bookID, model.LoanStatusIssued).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateTx creates a loan within a transaction.
func (r *loanRepository) CreateTx(ctx context.Context, tx interface{}, loan *model.Loan) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Create(loan).Error
}

// UpdateTx updates a loan within a transaction.
func (r *loanRepository) UpdateTx(ctx context.Context, tx interface{}, loan *model.Loan) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Save(loan).Error
}

// DeleteByBookTx deletes every loan referencing a book within a transaction,
// regardless of status. Used by the catalog cascade delete.
func (r *loanRepository) DeleteByBookTx(ctx context.Context, tx interface{}, bookID uuid.UUID) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Where("book_id = ?", bookID).Delete(&model.Loan{}).Error
}
