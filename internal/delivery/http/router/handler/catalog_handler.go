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

const defaultListingRows = 8

// CatalogHandler holds dependencies for the public catalog handlers.
type CatalogHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: logger,
	}
}

type searchResponse struct {
	Text       string                  `json:"text"`
	Category   string                  `json:"category"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"totalPages"`
	LastPage   bool                    `json:"lastPage"`
	Results    []*usecase.SearchResult `json:"results"`
}

type detailResponse struct {
	Performance *usecase.PerformanceDetail `json:"performance"`
	Page        int                        `json:"page"`
	TotalPages  int                        `json:"totalPages"`
	Reviews     []*usecase.ReviewView      `json:"reviews"`
}

// List handles the main listing request.
func (h *CatalogHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	rows := queryInt(c, "rows", defaultListingRows)
	sortBy := c.QueryParam("sortBy")
	if sortBy == "" {
		sortBy = usecase.SortDefault
	}

	performances, err := h.uc.List(c.Request().Context(), sortBy, page, rows)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, performances, "")
}

// Search handles the catalog search request.
func (h *CatalogHandler) Search(c echo.Context) error {
	page := queryInt(c, "page", 1)
	text := c.QueryParam("text")
	category := c.QueryParam("category")

	output, err := h.uc.Search(c.Request().Context(), text, category, page)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, searchResponse{
		Text:       output.Text,
		Category:   output.Category,
		Page:       output.Page,
		TotalPages: output.TotalPages,
		LastPage:   output.LastPage,
		Results:    output.Results,
	}, "")
}

// Detail handles the performance detail request.
func (h *CatalogHandler) Detail(c echo.Context) error {
	performanceID := c.QueryParam("prfId")
	if performanceID == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Missing performance id")
	}
	page := queryInt(c, "page", 1)

	output, err := h.uc.Detail(c.Request().Context(), performanceID, page)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, detailResponse{
		Performance: output.Performance,
		Page:        output.Page,
		TotalPages:  output.TotalPages,
		Reviews:     output.Reviews,
	}, "")
}

// queryInt parses a positive integer query parameter, falling back to the
// default on absence or garbage.
func queryInt(c echo.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || value < 1 {
		return fallback
	}

	return value
}
