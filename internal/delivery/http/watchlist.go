package http

import (
	"net/http"
	"strconv"

	"stock-screener/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupWatchlist(base *echo.Group) {
	v1 := base.Group("/v1/watchlist")
	{
		v1.GET("", h.getWatchlist)
		v1.GET("/candidates", h.getCandidates)
		v1.POST("/refresh", h.refreshWatchlist)
		v1.POST("/prices", h.updateWatchlistPrices)
		v1.POST("/cleanup", h.cleanupWatchlist)
	}
}

func (h *HttpAPIHandler) getWatchlist(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("user_id must be a positive integer"))
	}

	entries, err := h.service.WatchlistService.List(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to load watchlist", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", entries))
}

func (h *HttpAPIHandler) getCandidates(c echo.Context) error {
	candidates, err := h.service.WatchlistService.FindCandidates(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to screen candidates", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", candidates))
}

func (h *HttpAPIHandler) refreshWatchlist(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("user_id must be a positive integer"))
	}

	result, err := h.service.WatchlistService.Refresh(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to refresh watchlist", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", result))
}

func (h *HttpAPIHandler) updateWatchlistPrices(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("user_id must be a positive integer"))
	}

	result, err := h.service.WatchlistService.UpdatePrices(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to update prices", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", result))
}

func (h *HttpAPIHandler) cleanupWatchlist(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("user_id must be a positive integer"))
	}

	result, err := h.service.WatchlistService.Cleanup(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to clean up watchlist", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", result))
}

// userID reads the user_id query parameter, falling back to the configured
// default user when absent.
func (h *HttpAPIHandler) userID(c echo.Context) (uint, error) {
	raw := c.QueryParam("user_id")
	if raw == "" {
		return h.cfg.Watchlist.DefaultUserID, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, echo.ErrBadRequest
	}
	return uint(parsed), nil
}
