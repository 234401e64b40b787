package event

import (
	"eventra/core/cache"
	"eventra/core/database"
	"eventra/core/middleware"
	"eventra/core/queue"
	"eventra/modules/calendar"
	"eventra/modules/event/controller"
	"eventra/modules/event/repository"
	"eventra/modules/event/router"
	"eventra/modules/event/service"
	geocodeService "eventra/modules/geocode/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.Database, cacheStore cache.Cache, queueClient queue.Enqueuer) {
	repo := repository.NewEventRepository(&db)
	geocodeSvc := geocodeService.NewGeocodeService(cacheStore)
	calendarSvc := calendar.GetService(db, cacheStore)
	eventService := service.NewEventService(repo, geocodeSvc, calendarSvc, queueClient)
	eventController := controller.NewEventController(eventService)

	mw := middleware.NewMiddleware()
	router.NewEventRouter(eventController).Setup(e, mw)
}
