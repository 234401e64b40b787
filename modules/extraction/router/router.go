package router

import (
	"eventra/core/middleware"
	"eventra/modules/extraction/controller"

	"github.com/labstack/echo/v4"
)

type ExtractionRouter struct {
	controller *controller.ExtractionController
}

func NewExtractionRouter(controller *controller.ExtractionController) *ExtractionRouter {
	return &ExtractionRouter{
		controller: controller,
	}
}

func (r *ExtractionRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	extractRoute := v1.Group("/private/events/extract")
	extractRoute.Use(mw.AuthMiddleware())
	extractRoute.POST("", r.controller.Extract)

	extractionRoutes := v1.Group("/private/extraction")
	extractionRoutes.Use(mw.AuthMiddleware())
	extractionRoutes.GET("/analytics", r.controller.Analytics)
	extractionRoutes.GET("/logs", r.controller.Logs)
}
