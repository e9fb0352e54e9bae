package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"libroflow/internal/errors"
	"libroflow/internal/model"
	"libroflow/internal/service"
)

// LoanHandler handles circulation endpoints.
type LoanHandler struct {
	lendingService service.LendingService
}

// NewLoanHandler creates a new loan handler.
func NewLoanHandler(lendingService service.LendingService) *LoanHandler {
	return &LoanHandler{lendingService: lendingService}
}

// IssueLoanRequest represents a borrow request.
type IssueLoanRequest struct {
	BookID string `json:"book_id" validate:"required,uuid"`
}

// LoanResponse decorates a loan with its derived overdue flag and the
// recomputed fine.
type LoanResponse struct {
	model.Loan
	Overdue     bool            `json:"overdue"`
	CurrentFine decimal.Decimal `json:"current_fine"`
}

func (h *LoanHandler) toResponse(loan *model.Loan, at time.Time) LoanResponse {
	return LoanResponse{
		Loan:        *loan,
		Overdue:     h.lendingService.IsOverdue(loan, at),
		CurrentFine: h.lendingService.Fine(loan, at),
	}
}

// IssueLoan godoc
// @Summary Borrow a copy of a book
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IssueLoanRequest true "Loan data"
// @Success 201 {object} LoanResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /loans [post]
func (h *LoanHandler) IssueLoan(c echo.Context) error {
	var req IssueLoanRequest
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

	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid book_id",
			Code:  "INVALID_UUID",
		})
	}

	loan, err := h.lendingService.Issue(c.Request().Context(), userID, bookID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, h.toResponse(loan, time.Now()))
}

// ReturnLoan godoc
// @Summary Return a borrowed copy
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} LoanResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /loans/{id}/return [post]
func (h *LoanHandler) ReturnLoan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid loan id",
			Code:  "INVALID_UUID",
		})
	}

	loan, err := h.lendingService.Return(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, h.toResponse(loan, time.Now()))
}

// ListLoans godoc
// @Summary List loans
// @Description Administrators see every loan, students only their own.
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} LoanResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /loans [get]
func (h *LoanHandler) ListLoans(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var loans []model.Loan
	if currentRole(c) == string(model.RoleAdmin) {
		loans, err = h.lendingService.ListLoans(c.Request().Context())
	} else {
		loans, err = h.lendingService.ListUserLoans(c.Request().Context(), userID)
	}
	if err != nil {
		return mapServiceError(err)
	}

	now := time.Now()
	out := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		out = append(out, h.toResponse(&loans[i], now))
	}
	return c.JSON(http.StatusOK, out)
}

// LoanEvents godoc
// @Summary List the audit trail of one loan
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {array} model.LoanEvent
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /loans/{id}/events [get]
func (h *LoanHandler) LoanEvents(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid loan id",
			Code:  "INVALID_UUID",
		})
	}

	events, err := h.lendingService.LoanEvents(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, events)
}
