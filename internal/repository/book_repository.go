package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"libroflow/internal/model"
)

// BookRepository defines book persistence operations.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	Update(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)
	ReplaceAll(ctx context.Context, books []model.Book) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interface{}) error) error
	FindByIDForUpdateTx(ctx context.Context, tx interface{}, id uuid.UUID) (*model.Book, error)
	UpdateAvailableTx(ctx context.Context, tx interface{}, id uuid.UUID, available int) error
	DeleteTx(ctx context.Context, tx interface{}, id uuid.UUID) error
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book.
func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Update updates an existing book.
func (r *bookRepository) Update(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// FindByID finds a book by ID.
func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns all books in insertion order.
func (r *bookRepository) List(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Count returns the number of books in the catalog.
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Book{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceAll wipes the catalog and inserts the given books in one transaction.
// Used by the seeder when the stored catalog is shorter than the canonical one.
func (r *bookRepository) ReplaceAll(ctx context.Context, books []model.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&model.Book{}).Error; err != nil {
			return err
		}
		if len(books) == 0 {
			return nil
		}
		return tx.CreateInBatches(books, 100).Error
	})
}

// WithTransaction executes a function within a database transaction.
func (r *bookRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interface{}) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
}

// FindByIDForUpdateTx finds a book by ID with a row-level lock within a transaction.
func (r *bookRepository) FindByIDForUpdateTx(ctx context.Context, tx interface{}, id uuid.UUID) (*model.Book, error) {
	txDB := tx.(*gorm.DB)
	var book model.Book
	if err := txDB.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateAvailableTx updates the available copy count within a transaction.
func (r *bookRepository) UpdateAvailableTx(ctx context.Context, tx interface{}, id uuid.UUID, available int) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Model(&model.Book{}).
		Where("id = ?", id).
		Update("available", available).Error
}

// DeleteTx deletes a book within a transaction.
func (r *bookRepository) DeleteTx(ctx context.Context, tx interface{}, id uuid.UUID) error {
	txDB := tx.(*gorm.DB)
	return txDB.WithContext(ctx).Where("id = ?", id).Delete(&model.Book{}).Error
}
