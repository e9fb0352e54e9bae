package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"libroflow/internal/cache"
	"libroflow/internal/errors"
	"libroflow/internal/model"
	"libroflow/internal/repository"
)

const (
	bookListCacheKey = "books:all"
	bookListCacheTTL = 5 * time.Minute
)

// CatalogService handles book inventory operations.
type CatalogService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error)
	SaveBook(ctx context.Context, book *model.Book) (*model.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, term, category string) ([]model.Book, error)
}

type catalogService struct {
	bookRepo  repository.BookRepository
	loanRepo  repository.LoanRepository
	cache     *cache.Client
	validator *ISBNValidator
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	bookRepo repository.BookRepository,
	loanRepo repository.LoanRepository,
	cache *cache.Client,
) CatalogService {
	return &catalogService{
		bookRepo:  bookRepo,
		loanRepo:  loanRepo,
		cache:     cache,
		validator: NewISBNValidator(),
	}
}

// ListBooks returns the full catalog with caching.
func (s *catalogService) ListBooks(ctx context.Context) ([]model.Book, error) {
	if data, _ := s.cache.Get(ctx, bookListCacheKey); data != nil {
		var cached []model.Book
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(books); err == nil {
		_ = s.cache.Set(ctx, bookListCacheKey, payload, bookListCacheTTL)
	}
	return books, nil
}

// GetBook retrieves a single book.
func (s *catalogService) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// SaveBook upserts a catalog record. When the id matches an existing book the
// record is replaced and availability moves by the same delta as quantity,
// floored at zero so checked-out copies are never counted twice. A new book
// gets a fresh id and starts fully in stock.
func (s *catalogService) SaveBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	if book.Quantity < 1 {
		return nil, errors.ErrInvalidQuantity
	}
	if err := s.validator.Validate(book.ISBN); err != nil {
		return nil, err
	}

	var existing *model.Book
	if book.ID != uuid.Nil {
		found, err := s.bookRepo.FindByID(ctx, book.ID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("find book: %w", err)
		}
		existing = found
	}

	if existing != nil {
		available := existing.Available + (book.Quantity - existing.Quantity)
		if available < 0 {
			available = 0
		}
		book.Available = available
		book.CreatedAt = existing.CreatedAt
		if err := s.bookRepo.Update(ctx, book); err != nil {
			return nil, fmt.Errorf("update book: %w", err)
		}
	} else {
		book.ID = uuid.New()
		book.Available = book.Quantity
		if err := s.bookRepo.Create(ctx, book); err != nil {
			return nil, fmt.Errorf("create book: %w", err)
		}
	}

	_ = s.cache.Delete(ctx, bookListCacheKey)
	_ = s.cache.Delete(ctx, statsCacheKey)
	return book, nil
}

// DeleteBook removes a book and cascades to every loan referencing it in a
// single transaction, so no intermediate state with orphaned loans is ever
// observable.
func (s *catalogService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if _, err := s.bookRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrBookNotFound
		}
		return err
	}

	if outstanding, err := s.loanRepo.CountIssuedByBook(ctx, id); err == nil && outstanding > 0 {
		log.Printf("deleting book %s with %d outstanding loans", id, outstanding)
	}

	err := s.bookRepo.WithTransaction(ctx, func(ctx context.Context, tx interface{}) error {
		if err := s.loanRepo.DeleteByBookTx(ctx, tx, id); err != nil {
			return fmt.Errorf("delete loans: %w", err)
		}
		if err := s.bookRepo.DeleteTx(ctx, tx, id); err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, bookListCacheKey)
	_ = s.cache.Delete(ctx, statsCacheKey)
	return nil
}

// Search filters the catalog by a case-insensitive substring match on title
// or author, a substring match on isbn, and an exact category filter.
// An empty or "All" category matches everything. Catalog order is preserved.
func (s *catalogService) Search(ctx context.Context, term, category string) ([]model.Book, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(term)
	filtered := make([]model.Book, 0, len(books))
	for _, b := range books {
		matchesTerm := term == "" ||
			strings.Contains(strings.ToLower(b.Title), lowered) ||
			strings.Contains(strings.ToLower(b.Author), lowered) ||
			strings.Contains(b.ISBN, term)
		matchesCategory := category == "" || category == "All" || b.Category == category
		if matchesTerm && matchesCategory {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}
