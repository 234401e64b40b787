package router

import (
	"eventra/core/middleware"
	"eventra/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{
		controller: controller,
	}
}

func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	eventRoutes := v1.Group("/private/events")
	eventRoutes.Use(mw.AuthMiddleware())

	eventRoutes.POST("", r.controller.CreateEvent)
	eventRoutes.GET("", r.controller.ListEvents)
	// static routes before /:id so they do not bind as an event id
	eventRoutes.GET("/search", r.controller.SearchEvents)
	eventRoutes.GET("/map", r.controller.MapEvents)
	eventRoutes.GET("/:id", r.controller.GetEvent)
	eventRoutes.PUT("/:id", r.controller.UpdateEvent)
	eventRoutes.DELETE("/:id", r.controller.DeleteEvent)
}
