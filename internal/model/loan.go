package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoanStatus represents the stored lifecycle state of a loan.
// Overdue is never stored; it is derived from the due date at read time.
type LoanStatus string

const (
	LoanStatusIssued   LoanStatus = "ISSUED"
	LoanStatusReturned LoanStatus = "RETURNED"
)

// Loan records one copy of a book checked out by a user.
type Loan struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	BookID     uuid.UUID       `json:"book_id" gorm:"type:char(36);not null;index"`
	UserID     uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	IssueDate  time.Time       `json:"issue_date" gorm:"not null"`
	DueDate    time.Time       `json:"due_date" gorm:"not null;index"`
	ReturnDate *time.Time      `json:"return_date,omitempty"`
	Status     LoanStatus      `json:"status" gorm:"type:varchar(20);not null;default:'ISSUED';index"`
	// Fine is a display hint written on return. The authoritative amount is
	// always recomputed from the dates.
	Fine      decimal.Decimal `json:"fine" gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Book Book `json:"-" gorm:"foreignKey:BookID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
