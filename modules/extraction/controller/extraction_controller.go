package controller

import (
	"strconv"

	"eventra/core/controller"
	"eventra/core/errors"
	"eventra/core/middleware"
	"eventra/core/params"
	"eventra/modules/extraction/dto"
	"eventra/modules/extraction/service"

	"github.com/labstack/echo/v4"
)

type ExtractionController struct {
	controller.BaseController
	service service.ExtractionService
}

func NewExtractionController(service service.ExtractionService) *ExtractionController {
	return &ExtractionController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// Extract parses free-form text into an event draft
// @Summary Extract event from text
// @Tags extraction
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ExtractRequest true "free-form text"
// @Success 200 {object} controller.SuccessResponse
// @Failure 422 {object} controller.ErrorResponse
// @Failure 503 {object} controller.ErrorResponse
// @Router /private/events/extract [post]
func (c *ExtractionController) Extract(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.ExtractRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "invalid request body", err))
	}

	draft, err := c.service.Extract(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, draft, "event draft")
}

// Analytics returns aggregate parsing statistics over a trailing window
// @Summary Extraction analytics
// @Tags extraction
// @Security BearerAuth
// @Param days query int false "window in days, defaults to 30"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/extraction/analytics [get]
func (c *ExtractionController) Analytics(ctx echo.Context) error {
	if _, err := middleware.UserID(ctx); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	days, _ := strconv.Atoi(ctx.QueryParam("days"))
	resp, err := c.service.Analytics(ctx.Request().Context(), days)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "extraction analytics")
}

// Logs pages through recent parsing attempts
// @Summary Extraction logs
// @Tags extraction
// @Security BearerAuth
// @Param page query int false "page number"
// @Param page_size query int false "page size"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/extraction/logs [get]
func (c *ExtractionController) Logs(ctx echo.Context) error {
	if _, err := middleware.UserID(ctx); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	logs, err := c.service.RecentLogs(ctx.Request().Context(), params.FromContext(ctx))
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, logs, "extraction logs")
}
