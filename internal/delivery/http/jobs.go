package http

import (
	"net/http"

	"stock-screener/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupJobs(base *echo.Group) {
	v1 := base.Group("/v1/jobs")
	{
		v1.POST("/run", h.runJob)
	}
}

type runJobRequest struct {
	Job string `json:"job" validate:"required,oneof=after_market price_update cleanup"`
}

// runJob triggers one scheduled job out of band. The job runs inline on the
// request context so the caller sees its outcome.
func (h *HttpAPIHandler) runJob(c echo.Context) error {
	req := new(runJobRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	ctx := c.Request().Context()
	var err error
	switch req.Job {
	case "after_market":
		err = h.service.SchedulerService.RunAfterMarket(ctx)
	case "price_update":
		err = h.service.SchedulerService.RunPriceUpdate(ctx)
	case "cleanup":
		err = h.service.SchedulerService.RunCleanup(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("job finished", nil))
}
