package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"libroflow/internal/repository"
	"libroflow/internal/seed"
)

// SeedHandler handles catalog seeding endpoints.
type SeedHandler struct {
	bookRepo repository.BookRepository
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(bookRepo repository.BookRepository) *SeedHandler {
	return &SeedHandler{bookRepo: bookRepo}
}

// SeedCatalogResponse represents the seed response.
type SeedCatalogResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// SeedCatalog godoc
// @Summary Seed the book catalog from the canonical reference data
// @Description Replaces the stored catalog only when it is missing or shorter
// @Description than the canonical one; otherwise a no-op.
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SeedCatalogResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} map[string]string
// @Router /seed/catalog [post]
func (h *SeedHandler) SeedCatalog(c echo.Context) error {
	if err := seed.Apply(c.Request().Context(), h.bookRepo); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, SeedCatalogResponse{
		Message: "catalog seeded",
		Count:   len(seed.Catalog()),
	})
}
