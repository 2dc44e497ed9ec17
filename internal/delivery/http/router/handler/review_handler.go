package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"remu/internal/delivery/http/response"
	"remu/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ReviewHandler holds dependencies for review mutation handlers.
type ReviewHandler struct {
	uc     usecase.ReviewUsecase
	logger *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		uc:     uc,
		logger: logger,
	}
}

type createReviewRequest struct {
	PerformanceID   string  `json:"pf_id" validate:"required"`
	PerformanceName string  `json:"prfnm" validate:"required"`
	Title           string  `json:"title" validate:"required"`
	Content         string  `json:"content" validate:"required"`
	Rating          float64 `json:"rating" validate:"required,gt=0,lte=5"`
}

// Fields are pointers so an absent field is distinguishable from a zero one.
type updateReviewRequest struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Rating  *float64 `json:"rating"`
}

// Create handles the review submission request.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, _, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := usecase.CreateReviewInput{
		UserID:          userID,
		PerformanceID:   req.PerformanceID,
		PerformanceName: req.PerformanceName,
		Title:           req.Title,
		Content:         req.Content,
		Rating:          req.Rating,
	}
	if err := h.uc.Create(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Review created")
}

// Update handles a partial edit of one of the caller's reviews.
func (h *ReviewHandler) Update(c echo.Context) error {
	userID, _, err := identityFromContext(c)
	if err != nil {
		return err
	}

	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid review id")
	}

	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}

	input := usecase.UpdateReviewInput{
		UserID:   userID,
		ReviewID: reviewID,
		Title:    req.Title,
		Content:  req.Content,
		Rating:   req.Rating,
	}
	if err := h.uc.Update(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review updated")
}

// Delete removes one of the caller's reviews.
func (h *ReviewHandler) Delete(c echo.Context) error {
	userID, _, err := identityFromContext(c)
	if err != nil {
		return err
	}

	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid review id")
	}

	if err := h.uc.Delete(c.Request().Context(), userID, reviewID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review deleted")
}
