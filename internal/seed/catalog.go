package seed

import (
	"context"
	"fmt"
	"log"

	"libroflow/internal/model"
	"libroflow/internal/repository"
)

// Categories lists the catalog categories exposed to clients.
var Categories = []string{
	"Fiction",
	"Non-Fiction",
	"Science",
	"History",
	"Technology",
	"Philosophy",
	"Biography",
	"Business",
	"Arts",
	"Self-Help",
	"Mystery",
	"Education",
}

// Catalog returns the canonical seed catalog. It is reference data used to
// initialize (or refresh) the books collection, not user data.
func Catalog() []model.Book {
	return []model.Book{
		{
			Title:       "Clean Code",
			Author:      "Robert C. Martin",
			ISBN:        "978-0132350884",
			Category:    "Technology",
			Quantity:    5,
			Available:   3,
			ImageURL:    "https://picsum.photos/seed/code/400/600",
			Description: "A handbook of agile software craftsmanship.",
		},
		{
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			ISBN:        "978-0743273565",
			Category:    "Fiction",
			Quantity:    10,
			Available:   10,
			ImageURL:    "https://picsum.photos/seed/gatsby/400/600",
			Description: "A classic of American literature.",
		},
		{
			Title:       "Sapiens",
			Author:      "Yuval Noah Harari",
			ISBN:        "978-0062316097",
			Category:    "History",
			Quantity:    8,
			Available:   5,
			ImageURL:    "https://picsum.photos/seed/sapiens/400/600",
			Description: "A brief history of humankind.",
		},
		{
			Title:       "Thinking, Fast and Slow",
			Author:      "Daniel Kahneman",
			ISBN:        "978-0374275631",
			Category:    "Philosophy",
			Quantity:    6,
			Available:   2,
			ImageURL:    "https://picsum.photos/seed/thinking/400/600",
			Description: "Exploration of human thought processes.",
		},
		{
			Title:       "The Immortal Life of Henrietta Lacks",
			Author:      "Rebecca Skloot",
			ISBN:        "978-1400052189",
			Category:    "Non-Fiction",
			Quantity:    4,
			Available:   4,
			ImageURL:    "https://picsum.photos/seed/henrietta/400/600",
			Description: "The story of cells that never died.",
		},
		{
			Title:       "A Brief History of Time",
			Author:      "Stephen Hawking",
			ISBN:        "978-0553380163",
			Category:    "Science",
			Quantity:    7,
			Available:   7,
			ImageURL:    "https://picsum.photos/seed/time/400/600",
			Description: "A landmark volume in science writing by one of the great minds of our time.",
		},
		{
			Title:       "Steve Jobs",
			Author:      "Walter Isaacson",
			ISBN:        "978-1451648539",
			Category:    "Biography",
			Quantity:    5,
			Available:   3,
			ImageURL:    "https://picsum.photos/seed/jobs/400/600",
			Description: "The exclusive biography of the creative entrepreneur who revolutionized six industries.",
		},
		{
			Title:       "Atomic Habits",
			Author:      "James Clear",
			ISBN:        "978-0735211292",
			Category:    "Self-Help",
			Quantity:    15,
			Available:   12,
			ImageURL:    "https://picsum.photos/seed/habits/400/600",
			Description: "An easy and proven way to build good habits and break bad ones.",
		},
		{
			Title:       "The Lean Startup",
			Author:      "Eric Ries",
			ISBN:        "978-0307887894",
			Category:    "Business",
			Quantity:    9,
			Available:   6,
			ImageURL:    "https://picsum.photos/seed/lean/400/600",
			Description: "How constant innovation creates radically successful businesses.",
		},
		{
			Title:       "The Girl with the Dragon Tattoo",
			Author:      "Stieg Larsson",
			ISBN:        "978-0307949486",
			Category:    "Mystery",
			Quantity:    12,
			Available:   10,
			ImageURL:    "https://picsum.photos/seed/tattoo/400/600",
			Description: "A dark and complex thriller.",
		},
		{
			Title:       "The Story of Art",
			Author:      "E.H. Gombrich",
			ISBN:        "978-0714832470",
			Category:    "Arts",
			Quantity:    3,
			Available:   3,
			ImageURL:    "https://picsum.photos/seed/art/400/600",
			Description: "One of the most famous and popular books on art ever published.",
		},
		{
			Title:       "Pedagogy of the Oppressed",
			Author:      "Paulo Freire",
			ISBN:        "978-0826412768",
			Category:    "Education",
			Quantity:    6,
			Available:   5,
			ImageURL:    "https://picsum.photos/seed/pedagogy/400/600",
			Description: "A seminal work in the field of critical pedagogy.",
		},
	}
}

// Apply seeds the book catalog when it is missing or shorter than the
// canonical one. In that case the stored catalog is replaced wholesale.
// Calling it again afterwards is a no-op.
func Apply(ctx context.Context, bookRepo repository.BookRepository) error {
	catalog := Catalog()

	count, err := bookRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if count >= int64(len(catalog)) {
		return nil
	}

	if err := bookRepo.ReplaceAll(ctx, catalog); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	log.Printf("seeded catalog with %d books (had %d)", len(catalog), count)
	return nil
}
