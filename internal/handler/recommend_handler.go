package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"libroflow/internal/errors"
	"libroflow/internal/service"
)

// RecommendHandler handles book recommendation endpoints.
type RecommendHandler struct {
	recommendService service.RecommendService
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(recommendService service.RecommendService) *RecommendHandler {
	return &RecommendHandler{recommendService: recommendService}
}

// RecommendRequest represents a recommendation request.
type RecommendRequest struct {
	Titles []string `json:"titles" validate:"required,min=1,dive,required"`
}

// RecommendResponse represents the suggestion text.
type RecommendResponse struct {
	Suggestions string `json:"suggestions"`
}

// Suggest godoc
// @Summary Suggest further reading
// @Description Best-effort: when the text generation collaborator is
// @Description unavailable a neutral fallback message is returned.
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecommendRequest true "Titles the reader liked"
// @Success 200 {object} RecommendResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /recommendations [post]
func (h *RecommendHandler) Suggest(c echo.Context) error {
	var req RecommendRequest
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

	suggestions := h.recommendService.Suggest(c.Request().Context(), req.Titles)
	return c.JSON(http.StatusOK, RecommendResponse{Suggestions: suggestions})
}
