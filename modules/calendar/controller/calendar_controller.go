package controller

import (
	"eventra/core/controller"
	"eventra/core/middleware"
	"eventra/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	service service.CalendarService
}

func NewCalendarController(service service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// GetConnections lists the user's calendar connections
// @Summary List calendar connections
// @Tags calendar
// @Security BearerAuth
// @Success 200 {object} controller.SuccessResponse
// @Router /private/calendar/connections [get]
func (c *CalendarController) GetConnections(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	connections, err := c.service.GetConnections(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, connections, "calendar connections")
}

// DisconnectCalendar revokes and deactivates a provider connection
// @Summary Disconnect a calendar provider
// @Tags calendar
// @Security BearerAuth
// @Param provider path string true "provider name"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/calendar/connections/{provider} [delete]
func (c *CalendarController) DisconnectCalendar(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	provider := ctx.Param("provider")
	if err := c.service.DisconnectCalendar(ctx.Request().Context(), userID, provider); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "calendar disconnected")
}
