package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserRole distinguishes administrators from regular borrowers.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleStudent UserRole = "STUDENT"
)

// User represents a registered library member.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'STUDENT';index"`
	ProfileImage string    `json:"profileImage,omitempty" gorm:"size:512"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DashboardStats aggregates circulation figures at a point in time.
// Every field is derived from current state when requested.
type DashboardStats struct {
	TotalBooks   int             `json:"total_books"`
	IssuedBooks  int             `json:"issued_books"`
	OverdueBooks int             `json:"overdue_books"`
	ActiveUsers  int             `json:"active_users"`
	TotalFines   decimal.Decimal `json:"total_fines"`
}
