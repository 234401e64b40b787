package router

import (
	"eventra/core/middleware"
	"eventra/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		controller: controller,
	}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Public routes
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", r.controller.Register)
	authRoutes.POST("/login", r.controller.Login)

	// OAuth redirect endpoint; Google calls this, so it cannot carry a JWT.
	authRoutes.GET("/google/callback", r.controller.GoogleCallback)

	// Private routes (require authentication)
	privateRoutes := v1.Group("/private/auth")
	privateRoutes.Use(mw.AuthMiddleware())
	privateRoutes.GET("/google/connect", r.controller.GoogleConnect)
}
