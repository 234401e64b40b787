package auth

import (
	"eventra/core/cache"
	"eventra/core/database"
	"eventra/core/middleware"
	"eventra/modules/auth/controller"
	"eventra/modules/auth/repository"
	"eventra/modules/auth/router"
	"eventra/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.Database, cacheStore cache.Cache) {
	repo := repository.NewAuthRepository(&db)
	authService := service.NewAuthService(repo, cacheStore)
	authController := controller.NewAuthController(authService)
	mw := middleware.NewMiddleware()

	router.NewAuthRouter(authController).Setup(e, mw)
}

// GetService creates an AuthService instance for use by other modules.
func GetService(db database.Database, cacheStore cache.Cache) service.AuthService {
	repo := repository.NewAuthRepository(&db)
	return service.NewAuthService(repo, cacheStore)
}
