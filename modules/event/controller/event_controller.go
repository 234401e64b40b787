package controller

import (
	"eventra/core/controller"
	"eventra/core/errors"
	"eventra/core/middleware"
	"eventra/modules/event/dto"
	"eventra/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	service service.EventService
}

func NewEventController(service service.EventService) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// CreateEvent creates an event and queues its calendar mirror
// @Summary Create event
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "event data"
// @Success 201 {object} controller.SuccessResponse
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "invalid request body", err))
	}

	resp, err := c.service.Create(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.CreatedResponse(ctx, resp, "event created")
}

// GetEvent returns a single event
// @Summary Get event
// @Tags events
// @Security BearerAuth
// @Param id path string true "event id"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidInput, "invalid event id", err))
	}

	resp, err := c.service.GetByID(ctx.Request().Context(), userID, eventID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "event")
}

// UpdateEvent overwrites an event and queues a calendar update
// @Summary Update event
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "event id"
// @Param request body dto.UpdateEventRequest true "event data"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidInput, "invalid event id", err))
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "invalid request body", err))
	}

	resp, err := c.service.Update(ctx.Request().Context(), userID, eventID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "event updated")
}

// DeleteEvent removes an event and queues the remote removal
// @Summary Delete event
// @Tags events
// @Security BearerAuth
// @Param id path string true "event id"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidInput, "invalid event id", err))
	}

	if err := c.service.Delete(ctx.Request().Context(), userID, eventID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "event deleted")
}

// ListEvents lists upcoming events merged with Google Calendar
// @Summary List upcoming events
// @Tags events
// @Security BearerAuth
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events [get]
func (c *EventController) ListEvents(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, err := c.service.List(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "upcoming events")
}

// SearchEvents searches events merged with Google Calendar
// @Summary Search events
// @Tags events
// @Security BearerAuth
// @Param q query string false "free text query"
// @Param time query string false "all, upcoming or past"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events/search [get]
func (c *EventController) SearchEvents(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	query := ctx.QueryParam("q")
	timeFilter := ctx.QueryParam("time")

	resp, err := c.service.Search(ctx.Request().Context(), userID, query, timeFilter)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "events")
}

// MapEvents lists geocoded events for the map view
// @Summary Map events
// @Tags events
// @Security BearerAuth
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events/map [get]
func (c *EventController) MapEvents(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, err := c.service.MapEvents(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "geocoded events")
}
