package extraction

import (
	"eventra/core/database"
	"eventra/core/middleware"
	"eventra/modules/extraction/controller"
	"eventra/modules/extraction/repository"
	"eventra/modules/extraction/router"
	"eventra/modules/extraction/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.Database) {
	repo := repository.NewParsingLogRepository(&db)
	extractionService := service.NewExtractionService(repo)
	extractionController := controller.NewExtractionController(extractionService)

	mw := middleware.NewMiddleware()
	router.NewExtractionRouter(extractionController).Setup(e, mw)
}
