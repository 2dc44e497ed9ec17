package handler

import (
	"log/slog"
	"net/http"
	"time"

	"remu/internal/delivery/http/response"
	"remu/internal/domain/entity"
	"remu/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for account self-service handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

type profileResponse struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type updateProfileRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Nickname string `json:"nickname" validate:"required"`
}

type ownReviewResponse struct {
	ReviewID        int64   `json:"review_id"`
	PerformanceID   string  `json:"pf_id"`
	PerformanceName string  `json:"prfnm"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	Rating          float64 `json:"rating"`
	CreatedAt       string  `json:"created_at"`
}

// Profile returns the caller's account summary.
func (h *UserHandler) Profile(c echo.Context) error {
	userID, _, err := identityFromContext(c)
	if err != nil {
		return err
	}

	output, err := h.uc.Profile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profileResponse{
		Email:    output.Email,
		Nickname: output.Nickname,
	}, "")
}

// Reviews returns every review the caller has written, newest first.
func (h *UserHandler) Reviews(c echo.Context) error {
	userID, _, err := identityFromContext(c)
	if err != nil {
		return err
	}

	reviews, err := h.uc.Reviews(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ownReviewsFromEntities(reviews), "")
}

// UpdateProfile replaces the caller's email and nickname.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, _, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := usecase.UpdateProfileInput{
		UserID:   userID,
		Email:    req.Email,
		Nickname: req.Nickname,
	}
	if err := h.uc.UpdateProfile(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Profile updated")
}

func ownReviewsFromEntities(reviews []*entity.Review) []ownReviewResponse {
	out := make([]ownReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, ownReviewResponse{
			ReviewID:        review.ID,
			PerformanceID:   review.PerformanceID,
			PerformanceName: review.PerformanceName,
			Title:           review.Title,
			Content:         review.Content,
			Rating:          review.Rating,
			CreatedAt:       review.CreatedAt.Format(time.RFC3339),
		})
	}

	return out
}
