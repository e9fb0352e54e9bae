package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"libroflow/internal/errors"
	"libroflow/internal/model"
	"libroflow/internal/service"
)

// BookHandler handles catalog endpoints.
type BookHandler struct {
	catalogService service.CatalogService
}

// NewBookHandler creates a new book handler.
func NewBookHandler(catalogService service.CatalogService) *BookHandler {
	return &BookHandler{catalogService: catalogService}
}

// SaveBookRequest represents a catalog upsert request.
type SaveBookRequest struct {
	ID          string `json:"id" validate:"omitempty,uuid"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	ISBN        string `json:"isbn"`
	Category    string `json:"category" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}

// ListBooks godoc
// @Summary List or search the catalog
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term (title, author or isbn)"
// @Param category query string false "Category filter, omit or 'All' for every category"
// @Success 200 {array} model.Book
// @Failure 401 {object} errors.ErrorResponse
// @Router /books [get]
func (h *BookHandler) ListBooks(c echo.Context) error {
	term := c.QueryParam("q")
	category := c.QueryParam("category")

	books, err := h.catalogService.Search(c.Request().Context(), term, category)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary Get a book by id
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid book id",
			Code:  "INVALID_UUID",
		})
	}

	book, err := h.catalogService.GetBook(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// SaveBook godoc
// @Summary Create or update a catalog record
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveBookRequest true "Book payload"
// @Success 200 {object} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /books [post]
func (h *BookHandler) SaveBook(c echo.Context) error {
	var req SaveBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	book := &model.Book{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Category:    req.Category,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}
	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid book id",
				Code:  "INVALID_UUID",
			})
		}
		book.ID = id
	}

	saved, err := h.catalogService.SaveBook(c.Request().Context(), book)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, saved)
}

// DeleteBook godoc
// @Summary Delete a book and its loans
// @Description Destructive: removes the book and every loan referencing it.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /books/{id} [delete]
func (h *BookHandler) DeleteBook(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid book id",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.catalogService.DeleteBook(c.Request().Context(), id); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "book deleted",
	})
}

// mapServiceError converts a domain error into an echo HTTP error.
func mapServiceError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
