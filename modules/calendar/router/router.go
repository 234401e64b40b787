package router

import (
	"eventra/core/middleware"
	"eventra/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	calendarRoutes := v1.Group("/private/calendar")
	calendarRoutes.Use(mw.AuthMiddleware())

	calendarRoutes.GET("/connections", r.controller.GetConnections)
	calendarRoutes.DELETE("/connections/:provider", r.controller.DisconnectCalendar)
}
