package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book represents a title held by the library. Quantity is the total number
// of owned copies; Available is how many of them are currently on the shelf.
// Available never exceeds Quantity and never goes negative.
type Book struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string         `json:"title" gorm:"size:255;not null;index"`
	Author      string         `json:"author" gorm:"size:255;not null;index"`
	ISBN        string         `json:"isbn" gorm:"size:20;not null"`
	Category    string         `json:"category" gorm:"size:100;not null;index"`
	Quantity    int            `json:"quantity" gorm:"not null"`
	Available   int            `json:"available" gorm:"not null"`
	ImageURL    string         `json:"imageUrl" gorm:"size:512"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
