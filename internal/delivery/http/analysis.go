package http

import (
	"errors"
	"net/http"
	"strconv"

	"stock-screener/internal/dto"
	"stock-screener/internal/service"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAnalysis(base *echo.Group) {
	v1 := base.Group("/v1/analysis")
	{
		v1.GET("/signals/:ticker", h.getTradingSignals)
		v1.GET("/indicators/rsi/:ticker", h.getRSI)
		v1.GET("/indicators/macd/:ticker", h.getMACD)
		v1.GET("/indicators/ma/:ticker", h.getMovingAverages)
		v1.GET("/indicators/volume/:ticker", h.getVolumeAnalysis)
		v1.GET("/breakouts", h.getBreakouts)
		v1.GET("/breakouts/summary", h.getBreakoutSummary)
		v1.GET("/breakouts/:ticker", h.getStockAnalysis)
	}
}

func (h *HttpAPIHandler) getTradingSignals(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("ticker is required"))
	}

	report, err := h.service.AnalysisService.GetTradingSignals(c.Request().Context(), ticker)
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", report))
}

func (h *HttpAPIHandler) getRSI(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("ticker is required"))
	}

	period := 0
	if raw := c.QueryParam("period"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("period must be a positive integer"))
		}
		period = parsed
	}

	result, err := h.service.AnalysisService.GetRSI(c.Request().Context(), ticker, period)
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", result))
}

func (h *HttpAPIHandler) getMACD(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("ticker is required"))
	}

	result, err := h.service.AnalysisService.GetMACD(c.Request().Context(), ticker)
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", result))
}

func (h *HttpAPIHandler) getMovingAverages(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("ticker is required"))
	}

	result, err := h.service.AnalysisService.GetMovingAverages(c.Request().Context(), ticker)
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", result))
}

func (h *HttpAPIHandler) getVolumeAnalysis(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("ticker is required"))
	}

	result, err := h.service.AnalysisService.GetVolumeAnalysis(c.Request().Context(), ticker)
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", result))
}

func (h *HttpAPIHandler) getBreakouts(c echo.Context) error {
	records, err := h.service.AnalysisService.GetBreakoutUniverse(c.Request().Context())
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", records))
}

func (h *HttpAPIHandler) getBreakoutSummary(c echo.Context) error {
	summary, err := h.service.AnalysisService.GetBreakoutSummary(c.Request().Context())
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", summary))
}

func (h *HttpAPIHandler) getStockAnalysis(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("ticker is required"))
	}

	analysis, err := h.service.AnalysisService.GetStockAnalysis(c.Request().Context(), ticker)
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", analysis))
}

func (h *HttpAPIHandler) analysisError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrStockNotFound) {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "Stock not found", nil))
	}
	return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to analyze stock", nil))
}
