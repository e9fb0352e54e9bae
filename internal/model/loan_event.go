package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanEventType classifies a circulation event.
type LoanEventType string

const (
	LoanEventIssued   LoanEventType = "issued"
	LoanEventReturned LoanEventType = "returned"
)

// LoanEvent is an audit trail entry for a circulation action.
// Every issue and return is logged.
type LoanEvent struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	LoanID    uuid.UUID      `json:"loan_id" gorm:"type:char(36);not null;index"`
	Type      LoanEventType  `json:"type" gorm:"type:varchar(20);not null;index"`
	Note      string         `json:"note,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Loan Loan `json:"-" gorm:"foreignKey:LoanID"`
}

// BeforeCreate sets UUID before creating the record.
func (e *LoanEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
