package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libroflow/internal/errors"
	"libroflow/internal/model"
)

func newCatalogFixture(t *testing.T) (*fakeBookRepo, *fakeLoanRepo, CatalogService) {
	t.Helper()
	bookRepo := newFakeBookRepo()
	loanRepo := newFakeLoanRepo()
	return bookRepo, loanRepo, NewCatalogService(bookRepo, loanRepo, nil)
}

func TestCatalogService_SaveBookNew(t *testing.T) {
	_, _, svc := newCatalogFixture(t)

	saved, err := svc.SaveBook(context.Background(), &model.Book{
		Title:    "The Go Programming Language",
		Author:   "Donovan and Kernighan",
		ISBN:     "9780134190440",
		Category: "Technology",
		Quantity: 5,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, 5, saved.Available, "a new book starts fully in stock")

	fetched, err := svc.GetBook(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Title, fetched.Title)
}

func TestCatalogService_SaveBookQuantityDelta(t *testing.T) {
	tests := []struct {
		name          string
		quantity      int
		available     int
		newQuantity   int
		wantAvailable int
	}{
		{"shrinking quantity moves availability down", 5, 3, 3, 1},
		{"growing quantity moves availability up", 5, 3, 8, 6},
		{"availability floors at zero", 5, 0, 4, 0},
		{"unchanged quantity keeps availability", 5, 2, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookRepo, _, svc := newCatalogFixture(t)
			id := bookRepo.add(model.Book{
				Title:     "Refactoring",
				Category:  "Technology",
				Quantity:  tt.quantity,
				Available: tt.available,
				CreatedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			})

			saved, err := svc.SaveBook(context.Background(), &model.Book{
				ID:       id,
				Title:    "Refactoring",
				Category: "Technology",
				Quantity: tt.newQuantity,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, saved.Available)
			assert.Equal(t, 2026, saved.CreatedAt.Year(), "creation time survives the update")
		})
	}
}

func TestCatalogService_SaveBookRejectsBadInput(t *testing.T) {
	_, _, svc := newCatalogFixture(t)

	_, err := svc.SaveBook(context.Background(), &model.Book{Title: "Empty", Quantity: 0})
	assert.ErrorIs(t, err, errors.ErrInvalidQuantity)

	_, err = svc.SaveBook(context.Background(), &model.Book{
		Title:    "Bad Checksum",
		ISBN:     "9780134190441",
		Quantity: 1,
	})
	assert.ErrorIs(t, err, errors.ErrInvalidISBN)
}

func TestCatalogService_DeleteBookCascades(t *testing.T) {
	bookRepo, loanRepo, svc := newCatalogFixture(t)
	doomed := bookRepo.add(model.Book{Title: "Doomed", Quantity: 1, Available: 1})
	kept := bookRepo.add(model.Book{Title: "Kept", Quantity: 1, Available: 1})

	require.NoError(t, loanRepo.Create(context.Background(), &model.Loan{
		BookID: doomed, UserID: uuid.New(), Status: model.LoanStatusIssued,
	}))
	require.NoError(t, loanRepo.Create(context.Background(), &model.Loan{
		BookID: kept, UserID: uuid.New(), Status: model.LoanStatusIssued,
	}))

	require.NoError(t, svc.DeleteBook(context.Background(), doomed))

	_, err := svc.GetBook(context.Background(), doomed)
	assert.ErrorIs(t, err, errors.ErrBookNotFound)

	loans, err := loanRepo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, loans, 1, "only the deleted book's loans go away")
	assert.Equal(t, kept, loans[0].BookID)
}

func TestCatalogService_DeleteBookUnknown(t *testing.T) {
	_, _, svc := newCatalogFixture(t)

	err := svc.DeleteBook(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errors.ErrBookNotFound)
}

func TestCatalogService_Search(t *testing.T) {
	bookRepo, _, svc := newCatalogFixture(t)
	bookRepo.add(model.Book{Title: "Clean Code", Author: "Robert C. Martin", ISBN: "9780132350884", Category: "Technology"})
	bookRepo.add(model.Book{Title: "Sapiens", Author: "Yuval Noah Harari", ISBN: "9780062316097", Category: "History"})
	bookRepo.add(model.Book{Title: "The Pragmatic Programmer", Author: "Hunt and Thomas", ISBN: "9780135957059", Category: "Technology"})

	tests := []struct {
		name     string
		term     string
		category string
		want     []string
	}{
		{"empty search returns everything", "", "", []string{"Clean Code", "Sapiens", "The Pragmatic Programmer"}},
		{"All category is a wildcard", "", "All", []string{"Clean Code", "Sapiens", "The Pragmatic Programmer"}},
		{"title match is case-insensitive", "clean", "", []string{"Clean Code"}},
		{"author match", "harari", "", []string{"Sapiens"}},
		{"isbn substring match", "013235", "", []string{"Clean Code"}},
		{"category filter", "", "Technology", []string{"Clean Code", "The Pragmatic Programmer"}},
		{"term and category combine", "programmer", "Technology", []string{"The Pragmatic Programmer"}},
		{"no match", "dune", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := svc.Search(context.Background(), tt.term, tt.category)
			require.NoError(t, err)

			titles := make([]string, 0, len(books))
			for _, b := range books {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}
